package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
	// MaxRetries 消费互动事件遇到存储故障时的最大重试次数，超过后转入死信或等待重投
	MaxRetries uint64 `mapstructure:"maxRetries" json:"maxRetries" yaml:"maxRetries"`
}

type Topics struct {
	PostCreated  string `mapstructure:"postCreated" json:"postCreated" yaml:"postCreated"`    //  帖子创建主题
	ReplyCreated string `mapstructure:"replyCreated" json:"replyCreated" yaml:"replyCreated"` //  回复创建主题
	Engagement   string `mapstructure:"engagement" json:"engagement" yaml:"engagement"`       //  点赞 / 浏览互动主题（消费）
	// DeadLetter 互动事件重试用尽后转投的死信主题，为空时不提交位移，原消息稍后重新处理
	DeadLetter string `mapstructure:"deadLetter" json:"deadLetter" yaml:"deadLetter"`
}
