package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hebrew-imagegen/internal/database"
	"github.com/user/hebrew-imagegen/internal/entity"
	"github.com/user/hebrew-imagegen/internal/pkg/events"
	"github.com/user/hebrew-imagegen/internal/pkg/overlay"
	"github.com/user/hebrew-imagegen/internal/service"
)

type stubProvider struct {
	image []byte
}

func (s *stubProvider) Generate(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	return s.image, nil
}

func (s *stubProvider) Edit(ctx context.Context, img []byte, instruction, aspectRatio string) ([]byte, error) {
	return s.image, nil
}

func (s *stubProvider) SuggestTexts(ctx context.Context, img []byte, productDescription string) ([]string, error) {
	return []string{"מבצע מיוחד!"}, nil
}

func testRouter(t *testing.T, provider service.ImageProvider) (*gin.Engine, database.ImageRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := database.NewMemoryImageRepository(0)
	svc := service.NewImageService(repo, provider, overlay.NewRenderer(""), events.NewNopProducer())
	return InitRoutes(NewImageHandler(svc)), repo
}

func smallPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := testRouter(t, &stubProvider{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSuggestPositionsEndpoint(t *testing.T) {
	router, _ := testRouter(t, &stubProvider{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/positions?width=1000&height=500", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool                       `json:"success"`
		Positions []entity.SuggestedPosition `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Positions, 7)
	assert.Equal(t, "Top", resp.Positions[0].Name)
}

func TestSuggestPositionsEndpointValidation(t *testing.T) {
	router, _ := testRouter(t, &stubProvider{})

	for _, query := range []string{"", "width=abc&height=10", "width=0&height=10", "width=-5&height=5"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/positions?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGenerateImageFromPrompt(t *testing.T) {
	router, _ := testRouter(t, &stubProvider{image: smallPNG(t)})

	w := postForm(router, "/api/generate-image", url.Values{
		"prompt":       {"a bicycle"},
		"aspect_ratio": {"1:1"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp entity.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ImageID)
	assert.Equal(t, 40, resp.Width)
	assert.Equal(t, 20, resp.Height)
	assert.Len(t, resp.SuggestedPositions, 7)
	assert.True(t, strings.HasPrefix(resp.ImageBase64, "data:image/png;base64,"))
}

func TestGenerateImageRequiresPromptOrUpload(t *testing.T) {
	router, _ := testRouter(t, &stubProvider{})

	w := postForm(router, "/api/generate-image", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateImageWithUpload(t *testing.T) {
	router, _ := testRouter(t, &stubProvider{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(smallPNG(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp entity.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40, resp.Width)
	assert.Equal(t, 20, resp.Height)
}

func TestAddTextFlow(t *testing.T) {
	router, repo := testRouter(t, &stubProvider{})

	id, err := repo.Put(context.Background(), smallPNG(t))
	require.NoError(t, err)

	w := postForm(router, "/api/add-text", url.Values{
		"image_id":     {id},
		"text":         {"מבצע"},
		"x":            {"5"},
		"y":            {"5"},
		"font_size":    {"12"},
		"color":        {"#FFFFFF"},
		"stroke_color": {"0,0,0,255"},
		"stroke_width": {"1"},
		"align":        {"right"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp entity.AddTextResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ImageID)

	// The stored image must now differ from the original upload.
	stored, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.NotEqual(t, smallPNG(t), stored)
}

func TestAddTextValidation(t *testing.T) {
	router, repo := testRouter(t, &stubProvider{})

	id, err := repo.Put(context.Background(), smallPNG(t))
	require.NoError(t, err)

	tests := []struct {
		name     string
		form     url.Values
		wantCode int
	}{
		{
			name:     "missing image_id",
			form:     url.Values{"text": {"hi"}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown image_id",
			form:     url.Values{"image_id": {"missing"}, "text": {"hi"}},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "bad color",
			form:     url.Values{"image_id": {id}, "text": {"hi"}, "color": {"chartreuse"}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad alignment",
			form:     url.Values{"image_id": {id}, "text": {"hi"}, "align": {"justify"}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad x",
			form:     url.Values{"image_id": {id}, "text": {"hi"}, "x": {"ten"}},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(router, "/api/add-text", tt.form)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestGetAndDownloadImage(t *testing.T) {
	router, repo := testRouter(t, &stubProvider{})

	data := smallPNG(t)
	id, err := repo.Put(context.Background(), data)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/image/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, data, w.Body.Bytes())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/download/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), id)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/image/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggestTextsEndpoint(t *testing.T) {
	router, repo := testRouter(t, &stubProvider{})

	id, err := repo.Put(context.Background(), smallPNG(t))
	require.NoError(t, err)

	w := postForm(router, "/api/suggest-texts", url.Values{
		"image_id":            {id},
		"product_description": {"hand made soap"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp entity.SuggestTextsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"מבצע מיוחד!"}, resp.Texts)
}
