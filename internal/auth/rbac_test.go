package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("PermissionTable", func() {
	var table PermissionTable

	ginkgo.BeforeEach(func() {
		table = PermissionTable{
			"list":    {UserTypeAdmin},
			"destroy": {},
		}
	})

	ginkgo.Describe("Allows", func() {
		ginkgo.Context("when the operation has no table entry", func() {
			ginkgo.It("should allow any caller, even anonymous", func() {
				gomega.Expect(table.Allows(nil, "ping")).To(gomega.BeTrue())

				caller := &User{ID: 1, UserType: UserTypeCommon}
				gomega.Expect(table.Allows(caller, "ping")).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("when the caller is anonymous", func() {
			ginkgo.It("should deny any restricted operation", func() {
				gomega.Expect(table.Allows(nil, "list")).To(gomega.BeFalse())
				gomega.Expect(table.Allows(nil, "destroy")).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("when the caller is a superadmin", func() {
			ginkgo.It("should allow every operation regardless of the required set", func() {
				caller := &User{ID: 1, UserType: UserTypeSuperAdmin}

				gomega.Expect(table.Allows(caller, "list")).To(gomega.BeTrue())
				gomega.Expect(table.Allows(caller, "destroy")).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("when the caller has a listed user type", func() {
			ginkgo.It("should allow the operation", func() {
				caller := &User{ID: 2, UserType: UserTypeAdmin}

				gomega.Expect(table.Allows(caller, "list")).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("when the caller's user type is not listed", func() {
			ginkgo.It("should deny the operation", func() {
				caller := &User{ID: 3, UserType: UserTypeCommon}

				gomega.Expect(table.Allows(caller, "list")).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("when the required set is empty", func() {
			ginkgo.It("should admit superadmins only", func() {
				admin := &User{ID: 2, UserType: UserTypeAdmin}
				common := &User{ID: 3, UserType: UserTypeCommon}
				root := &User{ID: 4, UserType: UserTypeSuperAdmin}

				gomega.Expect(table.Allows(admin, "destroy")).To(gomega.BeFalse())
				gomega.Expect(table.Allows(common, "destroy")).To(gomega.BeFalse())
				gomega.Expect(table.Allows(root, "destroy")).To(gomega.BeTrue())
			})
		})
	})
})

var _ = ginkgo.Describe("CanManagePassword", func() {
	ginkgo.It("should allow a user to manage their own password", func() {
		caller := &User{ID: 7, UserType: UserTypeCommon}

		gomega.Expect(CanManagePassword(caller, 7)).To(gomega.BeTrue())
	})

	ginkgo.It("should allow a superadmin to manage any password", func() {
		caller := &User{ID: 1, UserType: UserTypeSuperAdmin}

		gomega.Expect(CanManagePassword(caller, 99)).To(gomega.BeTrue())
	})

	ginkgo.It("should deny an admin managing another user's password", func() {
		caller := &User{ID: 2, UserType: UserTypeAdmin}

		gomega.Expect(CanManagePassword(caller, 99)).To(gomega.BeFalse())
	})

	ginkgo.It("should deny an anonymous caller", func() {
		gomega.Expect(CanManagePassword(nil, 1)).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("Gate", func() {
	var (
		gate  *Gate
		table PermissionTable
		next  http.Handler
	)

	ginkgo.BeforeEach(func() {
		gate = NewGate(slog.Default())
		table = PermissionTable{"list": {UserTypeAdmin}}
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	requestAs := func(principal *User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		if principal != nil {
			req = req.WithContext(ContextWithUser(req.Context(), principal))
		}
		rec := httptest.NewRecorder()
		gate.Require(table, "list")(next).ServeHTTP(rec, req)
		return rec
	}

	ginkgo.Context("when the caller is anonymous", func() {
		ginkgo.It("should respond 401", func() {
			rec := requestAs(nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Context("when the caller lacks the required user type", func() {
		ginkgo.It("should respond 403 without reaching the handler", func() {
			rec := requestAs(&User{ID: 3, UserType: UserTypeCommon})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})
	})

	ginkgo.Context("when the caller is allowed", func() {
		ginkgo.It("should pass the request through", func() {
			rec := requestAs(&User{ID: 2, UserType: UserTypeAdmin})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})
})
