package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/memecontest/backend/src/domain"
	repomemory "github.com/memecontest/backend/src/repository/memory"
	"github.com/memecontest/backend/src/service"
	blobmemory "github.com/memecontest/backend/src/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router      *gin.Engine
	blobs       *blobmemory.Backend
	memes       *repomemory.MemeRepository
	contestants *repomemory.ContestantRepository
}

func newTestServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs := blobmemory.New()
	memes := repomemory.NewMemeRepository()
	contestants := repomemory.NewContestantRepository()

	router := NewRouter(context.Background(), Services{
		Upload:       service.NewUploadService(blobs, memes),
		Registration: service.NewRegistrationService(contestants, bcrypt.MinCost),
		Listing:      service.NewListingService(memes),
		Blobs:        blobs,
	}, opts)

	return &testServer{router: router, blobs: blobs, memes: memes, contestants: contestants}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func multipartRequest(t *testing.T, title, filename string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if title != "" {
		require.NoError(t, writer.WriteField("title", title))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Meme Server is running...", w.Body.String())

	w = s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestUploadThenFetch(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	data := []byte("\x89PNG\r\n\x1a\n fake image bytes")

	w := s.do(multipartRequest(t, "Funny", "funny cat.png", data))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp UploadMemeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Meme uploaded successfully", resp.Message)
	require.NotNil(t, resp.Meme)
	assert.Equal(t, "Funny", resp.Meme.Title)
	assert.True(t, strings.HasPrefix(resp.Meme.ImageURL, "/uploads/"), resp.Meme.ImageURL)

	var raw map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"_id", "title", "imageUrl", "uploadedAt"} {
		assert.Contains(t, raw["meme"], key)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, resp.Meme.ImageURL, nil))
	require.Equal(t, http.StatusOK, w.Code)
	got, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestUploadWithoutFile(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	w := s.do(multipartRequest(t, "nothing", "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No file provided", resp.Message)
	assert.Equal(t, 1001, resp.Code)

	memes, err := s.memes.ListMemes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, memes)
	assert.Equal(t, 0, s.blobs.Len())
}

func TestUploadNotMultipart(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	w := s.do(jsonRequest(http.MethodPost, "/api/upload", `{"title":"x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.blobs.Len())
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t, RouterOptions{MaxUploadBytes: 64})

	w := s.do(multipartRequest(t, "big", "big.png", bytes.Repeat([]byte("a"), 4096)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.blobs.Len())
}

func TestListMemes(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/memes", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, title := range []string{"t1", "t2", "t3"} {
		w := s.do(multipartRequest(t, title, title+".png", []byte(title)))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/memes", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var memes []domain.Meme
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &memes))
	require.Len(t, memes, 3)
	assert.Equal(t, "t3", memes[0].Title)
	assert.Equal(t, "t1", memes[2].Title)
}

func TestRegisterContestant(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	body := `{"username":"alice","phone":"555-0100","password":"s3cret"}`

	w := s.do(jsonRequest(http.MethodPost, "/api/contestants/register", body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Registration successful"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "s3cret")

	w = s.do(jsonRequest(http.MethodPost, "/api/contestants/register", body))
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Username already taken", resp.Message)

	count, err := s.contestants.CountContestants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegisterContestant_Invalid(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	bodies := []string{
		`{"phone":"555","password":"pw"}`,
		`{"username":"bob","password":"pw"}`,
		`{"username":"bob","phone":"555"}`,
		`{"username":"  ","phone":"555","password":"pw"}`,
		`{}`,
		`not json`,
	}
	for _, body := range bodies {
		w := s.do(jsonRequest(http.MethodPost, "/api/contestants/register", body))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "All fields are required", resp.Message)
	}

	count, err := s.contestants.CountContestants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRegisterContestant_WhitespacePasswordAccepted(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	w := s.do(jsonRequest(http.MethodPost, "/api/contestants/register",
		`{"username":"gina","phone":"555","password":"   "}`))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRegisterCustomValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerCustomValidators(v))

	assert.Error(t, v.Var("   ", "notblank"))
	assert.NoError(t, v.Var("alice", "notblank"))
}

func TestServeMissingBlob(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	w := s.do(httptest.NewRequest(http.MethodGet, "/uploads/does-not-exist.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/uploads/..", nil))
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, RouterOptions{AllowOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/api/memes", nil)
	req.Header.Set("Origin", "http://example.com")
	w := s.do(req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	restricted := newTestServer(t, RouterOptions{AllowOrigins: []string{"http://localhost:5173"}})
	req = httptest.NewRequest(http.MethodGet, "/api/memes", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = restricted.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
