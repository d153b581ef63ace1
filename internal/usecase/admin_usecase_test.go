package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"ekathu/internal/domain/model"
	"ekathu/internal/infra/memory"
	repo "ekathu/internal/repository"
	"ekathu/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AdminUsecaseSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	orders *usecase.AdminOrderUsecase
	users  *usecase.AdminUserUsecase
	prods  *usecase.ProductUsecase
	audit  *usecase.AuditLogUsecase
}

func (s *AdminUsecaseSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	idGen := &seqIDGen{}
	clock := fixedClock{testNow}

	s.orders = usecase.NewAdminOrderUsecase(s.store, idGen, clock)
	s.users = usecase.NewAdminUserUsecase(s.store, s.store.Users(), idGen, clock)
	s.prods = usecase.NewProductUsecase(s.store, s.store.Products(), idGen, clock)
	s.audit = usecase.NewAuditLogUsecase(s.store.AuditLogs())

	seedUser(s.T(), s.store, "admin1", "admin@x.com", model.RoleAdmin)
	seedUser(s.T(), s.store, "u1", "a@x.com", model.RoleCustomer)
	s.Require().NoError(s.store.Orders().Create(s.ctx, model.NewOrder("o1", "A", "a@x.com", []model.OrderItem{
		{ProductID: "p1", ProductName: "Mug", Price: 100, Quantity: 1},
	}, model.OrderStatusPending, testNow)))
}

func TestAdminUsecaseSuite(t *testing.T) {
	suite.Run(t, new(AdminUsecaseSuite))
}

func (s *AdminUsecaseSuite) auditLogs() []model.AuditLog {
	logs, err := s.audit.List(s.ctx, repo.AuditLogFilter{})
	s.Require().NoError(err)
	return logs
}

func (s *AdminUsecaseSuite) TestUpdateOrderStatus_WritesAudit() {
	o, err := s.orders.UpdateStatus(s.ctx, "admin1", "o1", usecase.AdminUpdateOrderStatusInput{Status: "Shipped"})
	s.Require().NoError(err)
	s.Equal(model.OrderStatusShipped, o.Status)

	logs := s.auditLogs()
	s.Require().Len(logs, 1)
	s.Equal(model.AuditActionUpdateOrderStatus, logs[0].Action)
	s.Equal("admin1", logs[0].ActorUserID)
	s.Equal("o1", logs[0].ResourceID)
	s.JSONEq(`{"status":"Pending"}`, logs[0].BeforeJSON)
	s.JSONEq(`{"status":"Shipped"}`, logs[0].AfterJSON)
}

func (s *AdminUsecaseSuite) TestUpdateOrderStatus_SameStatusIsNoop() {
	_, err := s.orders.UpdateStatus(s.ctx, "admin1", "o1", usecase.AdminUpdateOrderStatusInput{Status: "Pending"})
	s.Require().NoError(err)
	s.Empty(s.auditLogs())
}

func (s *AdminUsecaseSuite) TestUpdateOrderStatus_Errors() {
	_, err := s.orders.UpdateStatus(s.ctx, "admin1", "missing", usecase.AdminUpdateOrderStatusInput{Status: "Shipped"})
	requireHTTPError(s.T(), err, http.StatusNotFound, "Order not found")

	_, err = s.orders.UpdateStatus(s.ctx, "admin1", "o1", usecase.AdminUpdateOrderStatusInput{Status: " "})
	requireHTTPError(s.T(), err, http.StatusBadRequest, "status required")

	_, err = s.orders.UpdateStatus(s.ctx, "", "o1", usecase.AdminUpdateOrderStatusInput{Status: "Shipped"})
	requireHTTPError(s.T(), err, http.StatusUnauthorized, "unauthorized")
}

func (s *AdminUsecaseSuite) TestDeleteOrder_WritesAudit() {
	s.Require().NoError(s.orders.Delete(s.ctx, "admin1", "o1"))

	_, err := s.store.Orders().FindByID(s.ctx, "o1")
	s.ErrorIs(err, repo.ErrNotFound)

	logs := s.auditLogs()
	s.Require().Len(logs, 1)
	s.Equal(model.AuditActionDeleteOrder, logs[0].Action)
	s.Equal("null", logs[0].AfterJSON)

	var before model.Order
	s.Require().NoError(json.Unmarshal([]byte(logs[0].BeforeJSON), &before))
	s.Equal(int64(100), before.Total)

	err = s.orders.Delete(s.ctx, "admin1", "o1")
	requireHTTPError(s.T(), err, http.StatusNotFound, "Order not found")
}

func (s *AdminUsecaseSuite) TestListOrders_Filter() {
	s.Require().NoError(s.store.Orders().Create(s.ctx, model.NewOrder("o2", "B", "b@x.com", nil, model.OrderStatusShipped, testNow)))

	all, err := s.orders.List(s.ctx, repo.OrderListFilter{})
	s.Require().NoError(err)
	s.Len(all, 2)

	shipped, err := s.orders.List(s.ctx, repo.OrderListFilter{Status: "Shipped"})
	s.Require().NoError(err)
	s.Require().Len(shipped, 1)
	s.Equal("o2", shipped[0].ID)

	mine, err := s.orders.List(s.ctx, repo.OrderListFilter{Email: " A@x.com"})
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal("o1", mine[0].ID)
}

func (s *AdminUsecaseSuite) TestDeleteUser_ClearsCartAndAudits() {
	s.Require().NoError(s.store.CartItems().IncrementOrCreate(s.ctx, model.CartItem{ID: "c1", UserID: "u1", ProductID: "p1"}, 1, testNow))

	s.Require().NoError(s.users.Delete(s.ctx, "admin1", "u1"))

	_, err := s.store.Users().FindByID(s.ctx, "u1")
	s.ErrorIs(err, repo.ErrNotFound)
	n, err := s.store.CartItems().CountByUserID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Zero(n)

	logs := s.auditLogs()
	s.Require().Len(logs, 1)
	s.Equal(model.AuditActionDeleteUser, logs[0].Action)
	s.Equal(model.AuditResourceUser, logs[0].ResourceType)
	s.NotContains(logs[0].BeforeJSON, "password")
}

func (s *AdminUsecaseSuite) TestDeleteUser_Errors() {
	err := s.users.Delete(s.ctx, "admin1", "admin1")
	requireHTTPError(s.T(), err, http.StatusBadRequest, "cannot delete yourself")

	err = s.users.Delete(s.ctx, "admin1", "missing")
	requireHTTPError(s.T(), err, http.StatusNotFound, "User not found")
	s.Empty(s.auditLogs())
}

func (s *AdminUsecaseSuite) TestListUsers() {
	users, err := s.users.List(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
}

func (s *AdminUsecaseSuite) TestAdminDeleteProduct() {
	seedProduct(s.T(), s.store, "p1", "Mug", 100)

	s.Require().NoError(s.prods.AdminDelete(s.ctx, "admin1", "p1"))
	logs := s.auditLogs()
	s.Require().Len(logs, 1)
	s.Equal(model.AuditActionDeleteProduct, logs[0].Action)

	err := s.prods.AdminDelete(s.ctx, "admin1", "p1")
	requireHTTPError(s.T(), err, http.StatusNotFound, "Product not found")
}

func (s *AdminUsecaseSuite) TestAuditLogFilter() {
	_, err := s.orders.UpdateStatus(s.ctx, "admin1", "o1", usecase.AdminUpdateOrderStatusInput{Status: "Shipped"})
	s.Require().NoError(err)
	s.Require().NoError(s.users.Delete(s.ctx, "admin1", "u1"))

	logs, err := s.audit.List(s.ctx, repo.AuditLogFilter{Action: model.AuditActionDeleteUser})
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal("u1", logs[0].ResourceID)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedUser(t, store, "u1", "a@x.com", model.RoleCustomer)
	seedProduct(t, store, "p1", "Mug", 100)
	seedProduct(t, store, "p2", "Pen", 10)
	require.NoError(t, store.Orders().Create(ctx, model.Order{ID: "o1", Total: 150}))
	require.NoError(t, store.Orders().Create(ctx, model.Order{ID: "o2", Total: 50}))

	out, err := usecase.NewStatsUsecase(store.Products(), store.Orders(), store.Users()).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, usecase.StatsOutput{
		ProductCount: 2,
		OrderCount:   2,
		TotalSales:   200,
		UserCount:    1,
	}, out)
}

func TestStats_Empty(t *testing.T) {
	store := memory.NewStore()
	out, err := usecase.NewStatsUsecase(store.Products(), store.Orders(), store.Users()).Get(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out)
}
