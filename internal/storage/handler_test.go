package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	internal "github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
)

type stubStorageService struct {
	uploaded     []string
	lastUploader int64
	urls         map[string]string
}

func newStubStorageService() *stubStorageService {
	return &stubStorageService{urls: map[string]string{
		"report.pdf": "https://bucket.s3.amazonaws.com/report.pdf?signed",
	}}
}

func (s *stubStorageService) Upload(_ context.Context, uploaderID int64, fileName, contentType string, size int64, body io.Reader) (*File, error) {
	s.uploaded = append(s.uploaded, fileName)
	s.lastUploader = uploaderID
	return &File{ID: 1, ObjectName: "obj-" + fileName, FileName: fileName, ContentType: contentType, SizeBytes: size, UploadedBy: uploaderID, CreatedAt: time.Now()}, nil
}

func (s *stubStorageService) PresignedURL(_ context.Context, dto GetURLDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}
	url, ok := s.urls[dto.ObjectName]
	if !ok {
		return "", internal.ErrFileNotFound
	}
	return url, nil
}

func multipartBody(fieldName, fileName, content string) (*bytes.Buffer, string) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, _ := mw.CreateFormFile(fieldName, fileName)
	fw.Write([]byte(content))
	mw.Close()
	return buf, mw.FormDataContentType()
}

var _ = ginkgo.Describe("StorageHandler", func() {
	var (
		handler *Handler
		stub    *stubStorageService
		router  *chi.Mux
	)

	asUser := func(req *http.Request, principal *auth.User) *http.Request {
		return req.WithContext(auth.ContextWithUser(req.Context(), principal))
	}

	ginkgo.BeforeEach(func() {
		stub = newStubStorageService()
		handler = NewHandler(stub, 10)

		gate := auth.NewGate(nil)
		router = chi.NewRouter()
		router.Route("/files", func(r chi.Router) {
			r.With(gate.Require(PermissionTypes, "upload")).Post("/", handler.UploadFile)
			r.With(gate.Require(PermissionTypes, "download")).Get("/url", handler.GetFileURL)
		})
	})

	ginkgo.Describe("UploadFile", func() {
		ginkgo.Context("as an admin", func() {
			ginkgo.It("should store the file and respond with the record", func() {
				// Given
				body, contentType := multipartBody("file", "report.pdf", "%PDF-1.4")
				req := asUser(httptest.NewRequest(http.MethodPost, "/files/", body), &auth.User{ID: 7, UserType: auth.UserTypeAdmin})
				req.Header.Set("Content-Type", contentType)
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
				var resp map[string]interface{}
				gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
				gomega.Expect(resp["file_name"]).To(gomega.Equal("report.pdf"))
				gomega.Expect(resp["object_name"]).To(gomega.Equal("obj-report.pdf"))
				gomega.Expect(stub.lastUploader).To(gomega.Equal(int64(7)))
			})

			ginkgo.It("should reject a request without a file field", func() {
				// Given
				body, contentType := multipartBody("attachment", "report.pdf", "data")
				req := asUser(httptest.NewRequest(http.MethodPost, "/files/", body), &auth.User{ID: 7, UserType: auth.UserTypeAdmin})
				req.Header.Set("Content-Type", contentType)
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
				gomega.Expect(stub.uploaded).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("as a common user", func() {
			ginkgo.It("should be denied before the service is reached", func() {
				// Given
				body, contentType := multipartBody("file", "report.pdf", "data")
				req := asUser(httptest.NewRequest(http.MethodPost, "/files/", body), &auth.User{ID: 2, UserType: auth.UserTypeCommon})
				req.Header.Set("Content-Type", contentType)
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
				gomega.Expect(stub.uploaded).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when anonymous", func() {
			ginkgo.It("should respond 401", func() {
				// Given
				body, contentType := multipartBody("file", "report.pdf", "data")
				req := httptest.NewRequest(http.MethodPost, "/files/", body)
				req.Header.Set("Content-Type", contentType)
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			})
		})
	})

	ginkgo.Describe("GetFileURL", func() {
		ginkgo.It("should return a presigned URL for a known object", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodGet, "/files/url?object_name=report.pdf", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var resp map[string]string
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp["url"]).To(gomega.ContainSubstring("signed"))
		})

		ginkgo.It("should respond 404 for an unknown object", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodGet, "/files/url?object_name=missing.bin", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})

		ginkgo.It("should respond 400 for an object name that is too short", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodGet, "/files/url?object_name=ab", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})
})
