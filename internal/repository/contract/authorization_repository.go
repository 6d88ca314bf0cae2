package contract

import "context"

// AuthorizationRepository answers whether an accessKey/clientId pairing is
// registered. A store failure is returned as an error and must never be
// conflated with "not authorized".
type AuthorizationRepository interface {
	IsAuthorized(ctx context.Context, accessKey, clientID string) (bool, error)
}
