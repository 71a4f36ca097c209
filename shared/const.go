package shared

const (
	UserID = "user_id"

	// Visitor-facing error strings. Every rejection path collapses into one of
	// these three; no per-field detail leaves the server.
	ErrGeneric   = "Something went wrong. Please check your details and try again."
	ErrRateLimit = "Too many messages sent. Please try again later."
	ErrServer    = "We could not send your message right now. Please try again later."

	InquiryStatusUnread = "unread"
	InquiryStatusRead   = "read"
)
