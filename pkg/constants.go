package shared

const (
	ProjectID = "runart-project" // Can be overridden by GOOGLE_CLOUD_PROJECT

	TopicArtworkGenerated = "topic-artwork-generated"

	CollectionExecutions = "executions"

	// Event types published on pipeline completion.
	EventTypeArtworkGenerated = "com.stravarunart.artwork.generated"
	EventSource               = "runart-server"
)
