package mongodb

const (
	UsersCollection         = "users"          // User records, connections, preferences
	MarketingDataCollection = "marketing_data" // Per-day metric snapshots
	AIContentCollection     = "ai_content"     // Generated content drafts
)
