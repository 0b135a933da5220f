package league

import "context"

// Repository describes league reads needed by use cases.
type Repository interface {
	ListByUser(ctx context.Context, userID, season string) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, error)
	ListRosters(ctx context.Context, leagueID string) ([]Roster, error)
	ListMatchups(ctx context.Context, leagueID string, week int) ([]Matchup, error)
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
}
