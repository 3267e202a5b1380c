package errors

const (
	InvalidTokenError         = "Token is invalid"
	InvalidUserTokenError     = "Invalid user token"
	ExpiredTokenError         = "Verification token has expired"
	EmailAlreadyExist         = "Email already exists in database"
	InvalidCredentials        = "Invalid email or password"
	NotActiveAccount          = "Account is not active"
	NotVerifiedAccount        = "Account hasn't been verified yet"
	InvalidRequestFormatError = "Invalid request format"
	InvalidObjectIDError      = "Invalid object id"
	PetOwnerNotFoundError     = "Pet owner not found"
	PetSitterNotFoundError    = "Pet sitter not found"
	PetNotFoundError          = "Pet not found"
	ConversationNotFound      = "Conversation not found"
	SitterProfileExistsError  = "Pet sitter profile already exists for this owner"
	MalformedLocationError    = "Pet sitter has malformed location data"
	GeocodingUnavailable      = "Geocoding service unavailable"
)
