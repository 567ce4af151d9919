package controllers

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink-be/internal/entities"
)

func serveQRCode(svc *stubLinkService, path string) *httptest.ResponseRecorder {
	qc := NewQRCodeController(svc, "http://localhost:3000/")
	r := gin.New()
	r.GET("/qrcode/:short_code", qc.GenerateQRCode)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestQRCodeController_GenerateQRCode(t *testing.T) {
	t.Run("renders a png", func(t *testing.T) {
		svc := &stubLinkService{lookupLink: &entities.Link{ID: 1, ShortCode: "abc123", TargetURL: "https://example.com"}}
		rec := serveQRCode(svc, "/qrcode/abc123")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, QRCodeSize, img.Bounds().Dx())
	})

	t.Run("unknown code is 404", func(t *testing.T) {
		rec := serveQRCode(&stubLinkService{}, "/qrcode/nope00")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Short link not found"}`, rec.Body.String())
	})

	t.Run("lookup failure is 500", func(t *testing.T) {
		rec := serveQRCode(&stubLinkService{lookupErr: errors.New("down")}, "/qrcode/abc123")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
