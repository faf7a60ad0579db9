/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Game, Channel, and Message Business Logic Errors
	ErrGameNotFound:          {Code: ErrGameNotFound, Message: "Game not found.", Status: http.StatusNotFound},
	ErrNotGameParticipant:    {Code: ErrNotGameParticipant, Message: "You are not a participant of this game.", Status: http.StatusForbidden},
	ErrGameMasterOnly:        {Code: ErrGameMasterOnly, Message: "Only the game master can do that.", Status: http.StatusForbidden},
	ErrAlreadyJoined:         {Code: ErrAlreadyJoined, Message: "You already joined this game.", Status: http.StatusBadRequest},
	ErrNotInGame:             {Code: ErrNotInGame, Message: "You are not a player in this game.", Status: http.StatusBadRequest},
	ErrMasterCannotJoin:      {Code: ErrMasterCannotJoin, Message: "The game master cannot join their own game as a player.", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrMessageContentEmpty:   {Code: ErrMessageContentEmpty, Message: "Message cannot be empty.", Status: http.StatusBadRequest},
	ErrSelfMessage:           {Code: ErrSelfMessage, Message: "You cannot send a message to yourself.", Status: http.StatusBadRequest},
	ErrChannelNotAllowed:     {Code: ErrChannelNotAllowed, Message: "This roleplay channel is not available.", Status: http.StatusForbidden},
	ErrRoleInvalid:           {Code: ErrRoleInvalid, Message: "Unknown roleplay voice.", Status: http.StatusBadRequest},
	ErrDiceNotationInvalid:   {Code: ErrDiceNotationInvalid, Message: "Invalid dice notation. Use forms like 3d6 or 2d20+4.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:           {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSessionKicked:          {Code: ErrSessionKicked, Message: "You were signed in on another device.", Status: http.StatusConflict},
	ErrAlreadyLoggedIn:        {Code: ErrAlreadyLoggedIn, Message: "You are already signed in.", Status: http.StatusBadRequest},
	ErrInvalidUsername:        {Code: ErrInvalidUsername, Message: "Invalid username.", Status: http.StatusBadRequest},
	ErrInvalidPassword:        {Code: ErrInvalidPassword, Message: "Invalid password.", Status: http.StatusBadRequest},
	ErrInvalidEmail:           {Code: ErrInvalidEmail, Message: "Invalid email address.", Status: http.StatusBadRequest},
	ErrUserAlreadyExists:      {Code: ErrUserAlreadyExists, Message: "Username is already taken.", Status: http.StatusBadRequest},
	ErrEmailAlreadyRegistered: {Code: ErrEmailAlreadyRegistered, Message: "Email is already registered.", Status: http.StatusBadRequest},
	ErrInvalidCredentials:     {Code: ErrInvalidCredentials, Message: "Incorrect username or password.", Status: http.StatusUnauthorized},
	ErrUserNotFound:           {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrOldPasswordInvalid:     {Code: ErrOldPasswordInvalid, Message: "Current password is incorrect.", Status: http.StatusBadRequest},

	// 4xxx: Notification, Character, and File Errors
	ErrNotificationNotFound: {Code: ErrNotificationNotFound, Message: "Notification not found.", Status: http.StatusNotFound},
	ErrCharacterNotFound:    {Code: ErrCharacterNotFound, Message: "Character not found.", Status: http.StatusNotFound},
	ErrGalleryImageNotFound: {Code: ErrGalleryImageNotFound, Message: "Gallery image not found.", Status: http.StatusNotFound},
	ErrFileSizeTooLarge:     {Code: ErrFileSizeTooLarge, Message: "File is too large (limit %d MB).", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:      {Code: ErrFileTypeInvalid, Message: "File type is not allowed.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File storage is unavailable. Please try again.", Status: http.StatusInternalServerError},
}
