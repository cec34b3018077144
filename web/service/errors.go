package service

import "fmt"

type ErrorKind string

const (
	KindNotFound              ErrorKind = "NotFound"
	KindInsufficientFunds     ErrorKind = "InsufficientFunds"
	KindInsufficientMaterials ErrorKind = "InsufficientMaterials"
	KindInvalidTier           ErrorKind = "InvalidTier"
	KindStorageFailure        ErrorKind = "StorageFailure"

	// Kinds below serve the auth/profile/mini-game surfaces on top of
	// the core draw taxonomy.
	KindInvalidRequest     ErrorKind = "InvalidRequest"
	KindNameTaken          ErrorKind = "NameTaken"
	KindInvalidCredentials ErrorKind = "InvalidCredentials"
	KindInvalidBet         ErrorKind = "InvalidBet"
)

// GameError is the typed error surface of the game services. The
// controller layer maps Kind onto an HTTP status, nothing else leaks
// out of a failed precondition.
type GameError struct {
	Kind   ErrorKind `json:"kind"`
	Detail string    `json:"detail"`
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newGameError(kind ErrorKind, format string, a ...any) *GameError {
	return &GameError{Kind: kind, Detail: fmt.Sprintf(format, a...)}
}

func errUserNotFound(username string) *GameError {
	return newGameError(KindNotFound, "user %s not found", username)
}

func errInsufficientFunds(needed, current int64) *GameError {
	return newGameError(KindInsufficientFunds, "need %d coins, have %d", needed, current)
}

func errInsufficientMaterials(tier string, needed, current int64) *GameError {
	return newGameError(KindInsufficientMaterials, "need %d %s cards, have %d", needed, tier, current)
}

func errInvalidTier(tier string) *GameError {
	return newGameError(KindInvalidTier, "invalid tier %q", tier)
}

func errStorageFailure(err error) *GameError {
	return newGameError(KindStorageFailure, "%v", err)
}
