package constant

const (
	ServiceName    = "forum_service"
	ServiceVersion = "1.0.0"
)

// HeaderUserID 网关透传的用户身份头，由 go-common 的 UserContextMiddleware 读取
const HeaderUserID = "X-User-ID"
