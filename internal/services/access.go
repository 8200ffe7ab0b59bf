package services

import (
	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/pkg/utils"
)

// Access is the outcome of a read-access decision on a diary entry.
type Access int

const (
	AccessDenied Access = iota
	AccessOwner
	AccessShareToken
)

func (a Access) Allowed() bool {
	return a != AccessDenied
}

func (a Access) String() string {
	switch a {
	case AccessOwner:
		return "owner"
	case AccessShareToken:
		return "share_token"
	default:
		return "denied"
	}
}

// DecideAccess decides whether a caller may read entry. callerID is the
// verified identity of the caller, or "" when there is none (a token that
// failed verification counts as none). token is the share token the caller
// presented, possibly "".
//
// The owner always wins. Otherwise the entry must currently be shared and
// the token must equal the stored one exactly.
func DecideAccess(entry *models.DiaryEntry, callerID, token string) Access {
	if callerID != "" && callerID == entry.UserID {
		return AccessOwner
	}
	if CanUseShareToken(entry, token) {
		return AccessShareToken
	}
	return AccessDenied
}

// CanUseShareToken reports whether token opens entry through its share link.
// Comments are gated by this alone; ownership does not matter there.
func CanUseShareToken(entry *models.DiaryEntry, token string) bool {
	return entry.Visibility == models.VisibilityShared && utils.TokensEqual(token, entry.ShareToken)
}
