package http

import (
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
)

func toClientInfo(c domain.ClientApplication) oauthsdk.ClientInfo {
	return oauthsdk.ClientInfo{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Scope:       c.Scope,
		Status:      c.Status.String(),
		RedirectURI: c.RedirectURI,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

func toScopeInfo(s domain.Scope) oauthsdk.ScopeInfo {
	return oauthsdk.ScopeInfo{
		Name:             s.Name,
		Description:      s.Description,
		CCExpiresIn:      int64(s.CCExpiresIn / time.Second),
		PassExpiresIn:    int64(s.PassExpiresIn / time.Second),
		RefreshExpiresIn: int64(s.RefreshExpiresIn / time.Second),
		RefreshEligible:  s.RefreshEligible,
	}
}

func fromScopeInfo(s oauthsdk.ScopeInfo) domain.Scope {
	return domain.Scope{
		Name:             s.Name,
		Description:      s.Description,
		CCExpiresIn:      time.Duration(s.CCExpiresIn) * time.Second,
		PassExpiresIn:    time.Duration(s.PassExpiresIn) * time.Second,
		RefreshExpiresIn: time.Duration(s.RefreshExpiresIn) * time.Second,
		RefreshEligible:  s.RefreshEligible,
	}
}
