package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"advohub/internal/directory/models"
	"advohub/internal/directory/ports"
	"advohub/internal/directory/ports/mocks"
	"advohub/internal/origins"
	"advohub/pkg/platform/sentinel"
)

type RouterSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	admin     *mocks.MockAdminOrigin
	community *mocks.MockOrigin
	volunteer *mocks.MockOrigin
	contact   *mocks.MockOrigin
	router    *Router
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.admin = mocks.NewMockAdminOrigin(s.ctrl)
	s.community = mocks.NewMockOrigin(s.ctrl)
	s.volunteer = mocks.NewMockOrigin(s.ctrl)
	s.contact = mocks.NewMockOrigin(s.ctrl)
	s.router = NewRouter(ports.Sources{
		Admin:     s.admin,
		Community: s.community,
		Volunteer: s.volunteer,
		Contact:   s.contact,
	})
}

func (s *RouterSuite) TearDownTest() {
	s.ctrl.Finish()
}

var applied = &origins.MutationResponse{Success: true, Message: "ok"}

func (s *RouterSuite) TestAdminToggleUsesDedicatedEndpoint() {
	ctx := context.Background()
	target := models.UnifiedRecord{ID: "a1", Origin: models.OriginAdmin, Status: models.AdminStatusActive}
	s.admin.EXPECT().ToggleStatus(ctx, "a1").Return(applied, nil)

	s.Require().NoError(s.router.Apply(ctx, Action{Kind: ActionToggleStatus, Target: target}))
}

func (s *RouterSuite) TestEditAndDeleteRouteByOrigin() {
	ctx := context.Background()
	patch := map[string]any{"name": "New"}

	s.Run("admin edit", func() {
		s.admin.EXPECT().Update(ctx, "a1", patch).Return(applied, nil)
		s.NoError(s.router.Apply(ctx, Action{Kind: ActionEdit, Target: models.UnifiedRecord{ID: "a1", Origin: models.OriginAdmin}, Payload: patch}))
	})
	s.Run("community delete", func() {
		s.community.EXPECT().Delete(ctx, "c1").Return(applied, nil)
		s.NoError(s.router.Apply(ctx, Action{Kind: ActionDelete, Target: models.UnifiedRecord{ID: "c1", Origin: models.OriginCommunity}}))
	})
	s.Run("volunteer edit", func() {
		s.volunteer.EXPECT().Update(ctx, "v1", patch).Return(applied, nil)
		s.NoError(s.router.Apply(ctx, Action{Kind: ActionEdit, Target: models.UnifiedRecord{ID: "v1", Origin: models.OriginVolunteer}, Payload: patch}))
	})
	s.Run("contact delete", func() {
		s.contact.EXPECT().Delete(ctx, "t1").Return(applied, nil)
		s.NoError(s.router.Apply(ctx, Action{Kind: ActionDelete, Target: models.UnifiedRecord{ID: "t1", Origin: models.OriginContact}}))
	})
}

func (s *RouterSuite) TestToggleWritesNextStatus() {
	ctx := context.Background()

	cases := []struct {
		name   string
		mock   *mocks.MockOrigin
		target models.UnifiedRecord
		want   string
	}{
		{"community pending", s.community, models.UnifiedRecord{ID: "c1", Origin: models.OriginCommunity, Status: "pending"}, "approved"},
		{"community approved stays approved", s.community, models.UnifiedRecord{ID: "c1", Origin: models.OriginCommunity, Status: "approved"}, "approved"},
		{"volunteer literal active", s.volunteer, models.UnifiedRecord{ID: "v1", Origin: models.OriginVolunteer, Status: "active"}, "archived"},
		{"volunteer Active is not the literal", s.volunteer, models.UnifiedRecord{ID: "v1", Origin: models.OriginVolunteer, Status: "Active"}, "approved"},
		{"contact new", s.contact, models.UnifiedRecord{ID: "t1", Origin: models.OriginContact, Status: "new"}, "read"},
		{"contact read", s.contact, models.UnifiedRecord{ID: "t1", Origin: models.OriginContact, Status: "read"}, "archived"},
		{"contact replied", s.contact, models.UnifiedRecord{ID: "t1", Origin: models.OriginContact, Status: "replied"}, "archived"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			tc.mock.EXPECT().Update(ctx, tc.target.ID, map[string]any{"status": tc.want}).Return(applied, nil)
			s.NoError(s.router.Apply(ctx, Action{Kind: ActionToggleStatus, Target: tc.target}))
		})
	}
}

func (s *RouterSuite) TestOriginRejectionCarriesMessage() {
	ctx := context.Background()
	target := models.UnifiedRecord{ID: "v1", Origin: models.OriginVolunteer}
	s.volunteer.EXPECT().Delete(ctx, "v1").Return(&origins.MutationResponse{Success: false, Message: "volunteer has open shifts"}, nil)

	err := s.router.Apply(ctx, Action{Kind: ActionDelete, Target: target})

	var me *MutationError
	s.Require().ErrorAs(err, &me)
	s.Equal("volunteer has open shifts", me.Message)
	s.Equal(models.OriginVolunteer, me.Origin)
	s.Equal(ActionDelete, me.Kind)
}

func (s *RouterSuite) TestTransportErrorCarriesOriginMessage() {
	ctx := context.Background()
	target := models.UnifiedRecord{ID: "a1", Origin: models.OriginAdmin}
	cause := origins.NewOriginError(origins.ErrorRejected, origins.NameAdmin, "cannot deactivate the last admin", nil)
	s.admin.EXPECT().ToggleStatus(ctx, "a1").Return(nil, cause)

	err := s.router.Apply(ctx, Action{Kind: ActionToggleStatus, Target: target})

	var me *MutationError
	s.Require().ErrorAs(err, &me)
	s.Equal("cannot deactivate the last admin", me.Message)
	s.True(errors.Is(err, cause))
}

func (s *RouterSuite) TestUnknownKindNeverCallsOrigin() {
	err := s.router.Apply(context.Background(), Action{Kind: "archive", Target: models.UnifiedRecord{ID: "c1", Origin: models.OriginCommunity}})
	s.Error(err)
}

func TestRouter_UnconfiguredOrigin(t *testing.T) {
	router := NewRouter(ports.Sources{})

	err := router.Apply(context.Background(), Action{Kind: ActionDelete, Target: models.UnifiedRecord{ID: "c1", Origin: models.OriginCommunity}})

	if !errors.Is(err, ErrOriginNotConfigured) {
		t.Fatalf("expected ErrOriginNotConfigured, got %v", err)
	}
	if !errors.Is(err, sentinel.ErrNotConfigured) {
		t.Fatalf("expected sentinel.ErrNotConfigured in chain, got %v", err)
	}
}

func TestNextStatus_AdminIsDelegated(t *testing.T) {
	if got := NextStatus(models.UnifiedRecord{Origin: models.OriginAdmin, Status: "Active"}); got != "" {
		t.Fatalf("admin toggle should be delegated, got %q", got)
	}
}
