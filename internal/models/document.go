package models

// Fields used to scope documents to a user.
const (
	ListingHostEmailField  = "host.email"
	PaymentUserEmailField  = "user.email"
	ReviewAuthorEmailField = "review_user.email"
	ListingImageKeyField   = "image_key"
	UserEmailField         = "email"
	UserStatusField        = "status"
	UserTimestampField     = "timestamp"
)
