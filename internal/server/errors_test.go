package server

import (
	"net/http"
	"testing"

	"github.com/sqlservernerd/festguide/internal/authorization"
	festivaldomain "github.com/sqlservernerd/festguide/internal/festival/domain"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	schedulingdomain "github.com/sqlservernerd/festguide/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden gate", authorization.ErrForbidden, http.StatusForbidden},
		{"forbidden invite", permissiondomain.ErrForbidden, http.StatusForbidden},
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"slot overlap", schedulingdomain.ErrSlotOverlap, http.StatusConflict},
		{"slot engaged", schedulingdomain.ErrSlotEngaged, http.StatusConflict},
		{"lock contended", schedulingdomain.ErrLockContended, http.StatusConflict},
		{"already active", permissiondomain.ErrAlreadyActive, http.StatusConflict},
		{"invite pending", permissiondomain.ErrInvitePending, http.StatusConflict},
		{"slug taken", festivaldomain.ErrSlugTaken, http.StatusConflict},
		{"bad interval", schedulingdomain.ErrInvalidInterval, http.StatusBadRequest},
		{"owner not invitable", permissiondomain.ErrOwnerNotInvitable, http.StatusBadRequest},
		{"owner revocation", permissiondomain.ErrOwnerRevocation, http.StatusBadRequest},
		{"wrong festival artist", schedulingdomain.ErrArtistWrongFestival, http.StatusBadRequest},
		{"plain failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := mapError(tc.err)
			assert.Equal(t, tc.want, status)
		})
	}
}
