package config

const (
	// TopicProcessIndex is the NSQ topic for index-image extraction runs.
	TopicProcessIndex = "index.process"
)
