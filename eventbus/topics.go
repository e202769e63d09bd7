package eventbus

// One base topic per pipeline stage. Declared in one place so they can be
// swapped for configured names later if needed.

var (
	TopicScraping   = NewTopic("ai-pipeline.scraping")
	TopicCleaning   = NewTopic("ai-pipeline.cleaning")
	TopicSummary    = NewTopic("ai-pipeline.summary")
	TopicVideo      = NewTopic("ai-pipeline.video")
	TopicScheduling = NewTopic("ai-pipeline.scheduling")
)

var AllTopics = []Topic{
	TopicScraping,
	TopicCleaning,
	TopicSummary,
	TopicVideo,
	TopicScheduling,
}
