/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Game, Channel, and Message Business Logic Errors
const (
	// ErrGameNotFound indicates that the referenced game does not exist.
	ErrGameNotFound = 2101

	// ErrNotGameParticipant indicates the actor is neither the game master nor a player of the game.
	ErrNotGameParticipant = 2102

	// ErrGameMasterOnly indicates an action reserved for the game master.
	ErrGameMasterOnly = 2103

	// ErrAlreadyJoined indicates the user is already a player in the game.
	ErrAlreadyJoined = 2104

	// ErrNotInGame indicates the user is not a player in the game.
	ErrNotInGame = 2105

	// ErrMasterCannotJoin indicates the game master attempted to join their own game as a player.
	ErrMasterCannotJoin = 2106

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrMessageContentEmpty indicates an empty message body.
	ErrMessageContentEmpty = 2202

	// ErrSelfMessage indicates a direct message addressed to its own sender.
	ErrSelfMessage = 2203

	// ErrChannelNotAllowed indicates a roleplay channel id that does not map to a known game.
	ErrChannelNotAllowed = 2301

	// ErrRoleInvalid indicates an unknown roleplay voice/role tag.
	ErrRoleInvalid = 2302

	// ErrDiceNotationInvalid indicates dice notation that does not satisfy <count>d<sides>[+|-modifier].
	ErrDiceNotationInvalid = 2303
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing or invalid authentication token.
	ErrUnauthorized = 3001

	// ErrSessionKicked indicates that the current client connection has been replaced.
	ErrSessionKicked = 3002

	// ErrAlreadyLoggedIn indicates an authenticated user calling an anonymous-only endpoint.
	ErrAlreadyLoggedIn = 3003

	// ErrInvalidUsername indicates a username that fails format validation.
	ErrInvalidUsername = 3101

	// ErrInvalidPassword indicates a password that fails length validation.
	ErrInvalidPassword = 3102

	// ErrInvalidEmail indicates an email address that fails format validation.
	ErrInvalidEmail = 3103

	// ErrUserAlreadyExists indicates the username is already taken.
	ErrUserAlreadyExists = 3104

	// ErrEmailAlreadyRegistered indicates the email address is already registered.
	ErrEmailAlreadyRegistered = 3105

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = 3106

	// ErrUserNotFound indicates the referenced user account does not exist.
	ErrUserNotFound = 3107

	// ErrOldPasswordInvalid indicates the current password supplied for a password change is wrong.
	ErrOldPasswordInvalid = 3108
)

// 4xxx: Notification, Character, and File Errors
const (
	// ErrNotificationNotFound indicates the notification does not exist or is not owned by the caller.
	ErrNotificationNotFound = 4101

	// ErrCharacterNotFound indicates the character sheet does not exist or is not owned by the caller.
	ErrCharacterNotFound = 4201

	// ErrGalleryImageNotFound indicates the gallery image does not exist or is not owned by the caller.
	ErrGalleryImageNotFound = 4202

	// ErrFileSizeTooLarge indicates an upload exceeding the per-file size limit.
	ErrFileSizeTooLarge = 4301

	// ErrFileTypeInvalid indicates a disallowed upload file type.
	ErrFileTypeInvalid = 4302
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates a failure while talking to the object storage backend.
	ErrFileStorageFailed = 5001
)
