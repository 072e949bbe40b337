package service

import (
	"context"

	"storefront/models"
)

// AuthServiceInterface defines the contract for Cortex session authentication
type AuthServiceInterface interface {
	Login(ctx context.Context, sessionID string) error
	Token(ctx context.Context, sessionID string) (string, bool, error)
	Logout(ctx context.Context, sessionID string) error
}

// CortexServiceInterface defines the contract for Cortex resource operations
type CortexServiceInterface interface {
	Fetch(ctx context.Context, sessionID, uri string, zoom []string, out any) error
	Post(ctx context.Context, sessionID, uri string, body any) (*CortexPostResponse, error)
	PostFollow(ctx context.Context, sessionID, uri string, body any, zoom []string, out any) error
	LookupNavigation(ctx context.Context, sessionID, code string) (*models.CortexItemList, error)
	SearchKeywords(ctx context.Context, sessionID, keywords string) (*models.CortexItemList, error)
	FetchOfferSearch(ctx context.Context, sessionID, uri string) (*models.CortexItemList, error)
}
