package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"

	"github.com/rs/zerolog/log"
)

// version がぶつかったときに読み直す回数
const maxJoinAttempts = 3

type GroupUsecase struct {
	groups     repo.GroupRepository
	products   repo.ProductRepository
	idGen      IDGenerator
	clock      Clock
	events     EventPublisher
	defaultMax int
}

func NewGroupUsecase(
	groups repo.GroupRepository,
	products repo.ProductRepository,
	idGen IDGenerator,
	clock Clock,
	events EventPublisher,
	defaultMax int,
) *GroupUsecase {
	if defaultMax < 1 {
		defaultMax = model.DefaultGroupMaxMembers
	}
	return &GroupUsecase{
		groups:     groups,
		products:   products,
		idGen:      idGen,
		clock:      clock,
		events:     events,
		defaultMax: defaultMax,
	}
}

type CreateGroupInput struct {
	ProductID string
	Email     string
	// nil なら設定値
	MaxMembers *int
}

// 商品が消えていたら product は null
type GroupOutput struct {
	model.Group
	Product *model.Product `json:"product"`
}

type JoinGroupOutput struct {
	Success bool              `json:"success"`
	Members []string          `json:"members"`
	Status  model.GroupStatus `json:"status"`
}

// 作成者を最初のメンバーにして作る。グループIDを返す
func (u *GroupUsecase) Create(ctx context.Context, in CreateGroupInput) (string, error) {
	email := model.NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return "", NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return "", NewHTTPError(http.StatusBadRequest, "productId required")
	}

	maxMembers := u.defaultMax
	if in.MaxMembers != nil {
		if *in.MaxMembers < 1 {
			return "", NewHTTPError(http.StatusBadRequest, "maxMembers must be >= 1")
		}
		maxMembers = *in.MaxMembers
	}

	if _, err := u.products.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return "", internalError(ctx, err, "find product")
	}

	g := model.NewGroup(u.idGen.NewID(), in.ProductID, email, maxMembers, u.clock.Now())
	if err := u.groups.Create(ctx, g); err != nil {
		return "", internalError(ctx, err, "create group")
	}

	if g.Status == model.GroupStatusCompleted {
		publishBestEffort(ctx, u.events, SubjectGroupCompleted, groupCompletedEvent(g, u.clock))
	}
	return g.ID, nil
}

func (u *GroupUsecase) Get(ctx context.Context, groupID string) (GroupOutput, error) {
	g, err := u.findGroup(ctx, groupID)
	if err != nil {
		return GroupOutput{}, err
	}

	out := GroupOutput{Group: g}
	p, err := u.products.FindByID(ctx, g.ProductID)
	switch {
	case err == nil:
		out.Product = &p
	case errors.Is(err, repo.ErrNotFound):
	default:
		return GroupOutput{}, internalError(ctx, err, "find product")
	}
	return out, nil
}

// Join はメンバーを追加する。
// 書き込みは読んだ version が変わっていないときだけ通るので、
// 同時に参加しても定員を超えない。ぶつかったら読み直してやり直す。
func (u *GroupUsecase) Join(ctx context.Context, groupID string, email string) (JoinGroupOutput, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return JoinGroupOutput{}, NewHTTPError(http.StatusBadRequest, "email required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return JoinGroupOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	for attempt := 1; attempt <= maxJoinAttempts; attempt++ {
		g, err := u.findGroup(ctx, groupID)
		if err != nil {
			return JoinGroupOutput{}, err
		}

		version := g.Version
		completed, err := g.Join(email)
		switch {
		case errors.Is(err, model.ErrAlreadyMember):
			return JoinGroupOutput{}, NewKindError(ErrAlreadyMember, http.StatusBadRequest, "Already joined")
		case errors.Is(err, model.ErrGroupFull):
			return JoinGroupOutput{}, NewKindError(ErrGroupFull, http.StatusBadRequest, "Group full")
		}

		err = u.groups.UpdateMembers(ctx, g, version)
		if errors.Is(err, repo.ErrVersionConflict) {
			log.Ctx(ctx).Debug().Str("group_id", groupID).Int("attempt", attempt).Msg("group version conflict")
			continue
		}
		if errors.Is(err, repo.ErrNotFound) {
			return JoinGroupOutput{}, NewHTTPError(http.StatusNotFound, "Group not found")
		}
		if err != nil {
			return JoinGroupOutput{}, internalError(ctx, err, "update group")
		}

		if completed {
			log.Ctx(ctx).Info().Str("group_id", g.ID).Int("members", len(g.Members)).Msg("group completed")
			publishBestEffort(ctx, u.events, SubjectGroupCompleted, groupCompletedEvent(g, u.clock))
		}
		return JoinGroupOutput{Success: true, Members: g.Members, Status: g.Status}, nil
	}

	return JoinGroupOutput{}, NewHTTPError(http.StatusConflict, "Group busy, retry")
}

func (u *GroupUsecase) findGroup(ctx context.Context, groupID string) (model.Group, error) {
	if strings.TrimSpace(groupID) == "" {
		return model.Group{}, NewHTTPError(http.StatusBadRequest, "invalid group id")
	}
	g, err := u.groups.FindByID(ctx, groupID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Group{}, NewHTTPError(http.StatusNotFound, "Group not found")
	}
	if err != nil {
		return model.Group{}, internalError(ctx, err, "find group")
	}
	return g, nil
}

func groupCompletedEvent(g model.Group, clock Clock) GroupCompletedEvent {
	return GroupCompletedEvent{
		GroupID:     g.ID,
		ProductID:   g.ProductID,
		Members:     g.Members,
		CompletedAt: clock.Now(),
	}
}
