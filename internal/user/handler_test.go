package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	internal "github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
)

// Stub service recording which operations were reached
type stubUserService struct {
	users      map[int64]*User
	listCalled bool
	lastOffset int
	lastLimit  int
	destroyed  []int64
}

func newStubUserService() *stubUserService {
	return &stubUserService{
		users: map[int64]*User{
			1: {ID: 1, Email: "one@example.com", Name: "One", LastName: "User", UserType: auth.UserTypeAdmin, IsActive: true},
			2: {ID: 2, Email: "two@example.com", Name: "Two", LastName: "User", UserType: auth.UserTypeCommon, IsActive: true},
		},
	}
}

func (s *stubUserService) List(offset, limit int) ([]*User, error) {
	s.listCalled = true
	s.lastOffset = offset
	s.lastLimit = limit
	return []*User{s.users[1], s.users[2]}, nil
}

func (s *stubUserService) GetByID(id int64) (*User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (s *stubUserService) Create(_ context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return &User{ID: 3, Email: dto.Email, Name: dto.Name, LastName: dto.LastName, UserType: dto.UserType, IsActive: true}, nil
}

func (s *stubUserService) Update(id int64, dto UpdateUserDTO) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	return u, nil
}

func (s *stubUserService) SetPassword(caller *auth.User, targetID int64, dto SetPasswordDTO) error {
	if !auth.CanManagePassword(caller, targetID) {
		return internal.ErrUnauthorizedAccess
	}
	if err := dto.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *stubUserService) Destroy(_ context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return internal.ErrUserNotFound
	}
	s.destroyed = append(s.destroyed, id)
	return nil
}

var _ = ginkgo.Describe("UserHandler", func() {
	var (
		handler *Handler
		stub    *stubUserService
		router  *chi.Mux
	)

	asUser := func(req *http.Request, principal *auth.User) *http.Request {
		return req.WithContext(auth.ContextWithUser(req.Context(), principal))
	}

	ginkgo.BeforeEach(func() {
		stub = newStubUserService()
		handler = NewHandler(stub)

		gate := auth.NewGate(nil)
		router = chi.NewRouter()
		router.Get("/users/me", handler.GetCurrentUser)
		router.Route("/users", func(r chi.Router) {
			r.With(gate.Require(PermissionTypes, "list")).Get("/", handler.ListUsers)
			r.With(gate.Require(PermissionTypes, "create")).Post("/", handler.CreateUser)
			r.With(gate.Require(PermissionTypes, "retrieve")).Get("/{id}", handler.GetUser)
			r.With(gate.Require(PermissionTypes, "update")).Patch("/{id}", handler.UpdateUser)
			r.With(gate.Require(PermissionTypes, "set_password")).Post("/{id}/set_password", handler.SetPassword)
			r.With(gate.Require(PermissionTypes, "destroy")).Delete("/{id}", handler.DestroyUser)
		})
	})

	ginkgo.Describe("ListUsers", func() {
		ginkgo.Context("as an admin", func() {
			ginkgo.It("should return users with the default pagination window", func() {
				// Given
				req := asUser(httptest.NewRequest(http.MethodGet, "/users/", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
				gomega.Expect(stub.lastOffset).To(gomega.Equal(0))
				gomega.Expect(stub.lastLimit).To(gomega.Equal(10))

				var body map[string]json.RawMessage
				gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
				gomega.Expect(body).To(gomega.HaveKey("users"))
			})

			ginkgo.It("should honor offset and limit query params", func() {
				// Given
				req := asUser(httptest.NewRequest(http.MethodGet, "/users/?offset=20&limit=5", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
				gomega.Expect(stub.lastOffset).To(gomega.Equal(20))
				gomega.Expect(stub.lastLimit).To(gomega.Equal(5))
			})

			ginkgo.It("should fall back to defaults for unparseable params", func() {
				// Given
				req := asUser(httptest.NewRequest(http.MethodGet, "/users/?offset=x&limit=-4", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
				gomega.Expect(stub.lastOffset).To(gomega.Equal(0))
				gomega.Expect(stub.lastLimit).To(gomega.Equal(10))
			})
		})

		ginkgo.Context("as a common user", func() {
			ginkgo.It("should respond 403 before reaching the service", func() {
				// Given
				req := asUser(httptest.NewRequest(http.MethodGet, "/users/", nil), &auth.User{ID: 2, UserType: auth.UserTypeCommon})
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
				gomega.Expect(stub.listCalled).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("anonymously", func() {
			ginkgo.It("should respond 401", func() {
				// Given
				req := httptest.NewRequest(http.MethodGet, "/users/", nil)
				rec := httptest.NewRecorder()

				// When
				router.ServeHTTP(rec, req)

				// Then
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			})
		})
	})

	ginkgo.Describe("CreateUser", func() {
		ginkgo.It("should respond 201 with the created user and no password", func() {
			// Given
			payload, _ := json.Marshal(map[string]string{
				"email":     "fresh@example.com",
				"name":      "Fresh",
				"last_name": "Person",
				"user_type": auth.UserTypeCommon,
				"password":  "secret123",
			})
			req := asUser(httptest.NewRequest(http.MethodPost, "/users/", bytes.NewReader(payload)), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))

			var body map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["email"]).To(gomega.Equal("fresh@example.com"))
			gomega.Expect(body).ToNot(gomega.HaveKey("password"))
			gomega.Expect(body).ToNot(gomega.HaveKey("password_hash"))
		})

		ginkgo.It("should respond 400 for invalid input", func() {
			// Given
			payload, _ := json.Marshal(map[string]string{
				"email":     "broken",
				"name":      "Broken",
				"last_name": "Person",
				"user_type": auth.UserTypeCommon,
				"password":  "secret123",
			})
			req := asUser(httptest.NewRequest(http.MethodPost, "/users/", bytes.NewReader(payload)), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("should respond 400 for a malformed body", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodPost, "/users/", bytes.NewReader([]byte("{not json"))), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("GetUser", func() {
		ginkgo.It("should return the user for a valid id", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodGet, "/users/1", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should respond 404 for an unknown id", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodGet, "/users/99", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})

		ginkgo.It("should respond 400 for a non-numeric id", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodGet, "/users/abc", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("SetPassword", func() {
		payload := func() *bytes.Reader {
			b, _ := json.Marshal(map[string]string{
				"password":             "newsecret",
				"password_confimation": "newsecret",
			})
			return bytes.NewReader(b)
		}

		ginkgo.It("should deny a common user at the gate even for their own password", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodPost, "/users/2/set_password", payload()), &auth.User{ID: 2, UserType: auth.UserTypeCommon})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should respond 200 when an admin changes their own password", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodPost, "/users/1/set_password", payload()), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should respond 200 for a superadmin resetting another user", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodPost, "/users/2/set_password", payload()), &auth.User{ID: 9, UserType: auth.UserTypeSuperAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should respond 403 when an admin targets another user", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodPost, "/users/2/set_password", payload()), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should respond 400 for mismatched confirmation", func() {
			// Given
			b, _ := json.Marshal(map[string]string{
				"password":             "newsecret",
				"password_confimation": "other",
			})
			req := asUser(httptest.NewRequest(http.MethodPost, "/users/1/set_password", bytes.NewReader(b)), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("DestroyUser", func() {
		ginkgo.It("should allow a superadmin", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodDelete, "/users/2", nil), &auth.User{ID: 9, UserType: auth.UserTypeSuperAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(stub.destroyed).To(gomega.ContainElement(int64(2)))
		})

		ginkgo.It("should deny an admin", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodDelete, "/users/2", nil), &auth.User{ID: 1, UserType: auth.UserTypeAdmin})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(stub.destroyed).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetCurrentUser", func() {
		ginkgo.It("should return the authenticated user's record", func() {
			// Given
			req := asUser(httptest.NewRequest(http.MethodGet, "/users/me", nil), &auth.User{ID: 2, UserType: auth.UserTypeCommon})
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var body map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["email"]).To(gomega.Equal("two@example.com"))
		})

		ginkgo.It("should respond 401 without a principal", func() {
			// Given
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			rec := httptest.NewRecorder()

			// When
			router.ServeHTTP(rec, req)

			// Then
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
