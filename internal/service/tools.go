package service

import (
	"context"
	"time"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
)

// ListTools returns the catalog entries the given role may invoke.
func (s *Service) ListTools(role domain.Role) *domain.ListToolsResponse {
	resp := &domain.ListToolsResponse{Tools: []domain.ToolListItem{}}
	for _, schema := range tools.All() {
		if !schema.Allows(role) {
			continue
		}
		resp.Tools = append(resp.Tools, domain.ToolListItem{
			Name:        schema.Name,
			Description: schema.Description,
			Required:    nonNil(schema.Required()),
			Optional:    schema.Optional(),
			Roles:       schema.Roles,
			DraftKind:   string(schema.DraftKind),
		})
	}
	return resp
}

// RunDraftSweeper purges expired drafts until ctx is cancelled.
func (s *Service) RunDraftSweeper(ctx context.Context, interval time.Duration) {
	s.drafts.RunSweeper(ctx, interval)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
