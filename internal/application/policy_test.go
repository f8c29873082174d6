package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/bug-tracker-api/internal/domain/entity"
)

func TestCanMutate(t *testing.T) {
	bug := &entity.Bug{ID: "bug1", CreatedBy: "alice"}

	cases := []struct {
		name      string
		principal Principal
		want      bool
	}{
		{"Owner", Principal{ID: "alice", Role: entity.RoleUser}, true},
		{"OwnerAdmin", Principal{ID: "alice", Role: entity.RoleAdmin}, true},
		{"NonOwnerAdmin", Principal{ID: "bob", Role: entity.RoleAdmin}, true},
		{"NonOwnerUser", Principal{ID: "bob", Role: entity.RoleUser}, false},
		{"EmptyPrincipal", Principal{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanMutate(tc.principal, bug))
		})
	}
}
