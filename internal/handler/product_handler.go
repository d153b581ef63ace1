package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"ekathu/internal/infra/storage"
	"ekathu/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse は { message: string } の形。
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	log.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// JSONを読み込んで validate タグを検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// アップロード画像の保存先
type ImageSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(name string) error
}

// /api/products の公開API
type ProductHandler struct {
	uc     *usecase.ProductUsecase
	images ImageSaver
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, images ImageSaver) *ProductHandler {
	return &ProductHandler{uc: uc, images: images}
}

// 商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/products", h.list)
	e.GET("/api/products/:id", h.detail)
	e.POST("/api/products", h.create)
	e.DELETE("/api/products/:id", h.delete)
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.Search(c.Request().Context(), usecase.SearchProductsInput{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

// multipart: name, price, retail, category, userAd, image(任意)
func (h *ProductHandler) create(c echo.Context) error {
	price, err := parseMoney(c.FormValue("price"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price"})
	}
	retail, err := parseMoney(c.FormValue("retail"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid retail"})
	}

	img, saved, err := h.saveImage(c)
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.Create(c.Request().Context(), usecase.CreateProductInput{
		Name:     c.FormValue("name"),
		Price:    price,
		Retail:   retail,
		Category: c.FormValue("category"),
		UserAd:   c.FormValue("userAd") == "true",
		Img:      img,
	})
	if err != nil {
		//作れなかったら画像も残さない
		if saved != "" {
			if rmErr := h.images.Remove(saved); rmErr != nil {
				log.Ctx(c.Request().Context()).Warn().Err(rmErr).Str("file", saved).Msg("remove orphan image")
			}
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Deleted"})
}

// 画像が無ければ空文字（usecase がプレースホルダにする）
// 戻り値は公開URLと保存したファイル名
func (h *ProductHandler) saveImage(c echo.Context) (string, string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", "", nil
	}
	if err != nil {
		return "", "", usecase.NewHTTPError(http.StatusBadRequest, "invalid image")
	}

	name, err := h.images.Save(fh)
	switch {
	case errors.Is(err, storage.ErrUnsupportedImage):
		return "", "", usecase.NewHTTPError(http.StatusBadRequest, "unsupported image type")
	case errors.Is(err, storage.ErrImageTooLarge):
		return "", "", usecase.NewHTTPError(http.StatusBadRequest, "image too large")
	case err != nil:
		log.Ctx(c.Request().Context()).Error().Err(err).Msg("save image")
		return "", "", usecase.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return fmt.Sprintf("%s://%s/uploads/%s", c.Scheme(), c.Request().Host, name), name, nil
}

// 空は0。"1200" と "1200.0" のどちらも受ける
func parseMoney(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, errors.New("invalid number")
	}
	return int64(f), nil
}
