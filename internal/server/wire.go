package server

import (
	"ekathu/internal/handler"
	"ekathu/internal/infra/token"
	"ekathu/internal/repository"
	"ekathu/internal/usecase"
	auth "ekathu/internal/usecase/auth_usecase"
)

// usecase と handler を組み立てるための部品
type Deps struct {
	Store           repository.Store
	Events          usecase.EventPublisher
	Images          handler.ImageSaver
	IDGen           usecase.IDGenerator
	Clock           usecase.Clock
	JWTSecret       string
	BcryptCost      int
	GroupMaxMembers int
}

// NewHandlers は usecase を生成してハンドラに渡す。
// 管理者シードのため RegisterUserUsecase も返す。
func NewHandlers(d Deps) (Handlers, *auth.RegisterUserUsecase) {
	s := d.Store

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(d.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := token.NewJWTIssuer(d.JWTSecret, token.AccessTokenTTL)

	registerUC := auth.NewRegisterUserUsecase(s.Users(), hasher, d.IDGen, d.Clock)
	loginUC := auth.NewLoginUsecase(s.Users(), verifier, issuer, d.Clock)

	productUC := usecase.NewProductUsecase(s, s.Products(), d.IDGen, d.Clock)
	cartUC := usecase.NewCartUsecase(s.Users(), s.Products(), s.CartItems(), d.IDGen, d.Clock)
	checkoutUC := usecase.NewCheckoutUsecase(s, d.IDGen, d.Clock, d.Events)
	orderUC := usecase.NewOrderUsecase(s.Orders(), d.IDGen, d.Clock, d.Events)
	statsUC := usecase.NewStatsUsecase(s.Products(), s.Orders(), s.Users())
	groupUC := usecase.NewGroupUsecase(s.Groups(), s.Products(), d.IDGen, d.Clock, d.Events, d.GroupMaxMembers)
	adminOrderUC := usecase.NewAdminOrderUsecase(s, d.IDGen, d.Clock)
	adminUserUC := usecase.NewAdminUserUsecase(s, s.Users(), d.IDGen, d.Clock)
	auditUC := usecase.NewAuditLogUsecase(s.AuditLogs())

	return Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC),
		Product:      handler.NewProductHandler(productUC, d.Images),
		Cart:         handler.NewCartHandler(cartUC, checkoutUC),
		Order:        handler.NewOrderHandler(orderUC, statsUC),
		Group:        handler.NewGroupHandler(groupUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminUser:    handler.NewAdminUserHandler(adminUserUC, auditUC),
	}, registerUC
}
