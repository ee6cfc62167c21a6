package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/popguide/catalog-server/internal/api/v1"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/test-integration/catalog-api/helpers"
)

var _ = Describe("Browsing Sessions", Label("sessions"), func() {
	var (
		tempDir      string
		serverHelper *helpers.ServerTestHelper
		sessionPath  string
	)

	view := func() v1.SessionResponse {
		return helpers.DecodeJSON[v1.SessionResponse](serverHelper.Get(sessionPath))
	}

	send := func(method, suffix string, body any) v1.SessionResponse {
		return helpers.DecodeJSON[v1.SessionResponse](serverHelper.Do(method, sessionPath+suffix, body))
	}

	BeforeEach(func() {
		tempDir = createTempDir("catalog-session-test-")
		catalogPath := helpers.WriteCatalogFile(tempDir, helpers.CreateTestRecords(60))

		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, helpers.WriteFileConfig(tempDir, catalogPath, 24))
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)

		created := helpers.DecodeJSONStatus[v1.SessionResponse](http.StatusCreated)(
			serverHelper.Do(http.MethodPost, "/v1/sessions", nil))
		Expect(created.ID).NotTo(BeEmpty())
		Expect(created.VisibleCount).To(Equal(24))
		sessionPath = "/v1/sessions/" + created.ID
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
		cleanupTempDir(tempDir)
	})

	It("should grow the window once per content height", func() {
		near := v1.ScrollRequest{ScrollTop: 4600, ViewportHeight: 600, ContentHeight: 5000}

		resp := send(http.MethodPost, "/scroll", near)
		Expect(resp.VisibleCount).To(Equal(48))
		Expect(resp.Items).To(HaveLen(48))

		// repeated event before the new page is laid out
		resp = send(http.MethodPost, "/scroll", near)
		Expect(resp.VisibleCount).To(Equal(48))

		near.ContentHeight = 9800
		near.ScrollTop = 9400
		resp = send(http.MethodPost, "/scroll", near)
		Expect(resp.VisibleCount).To(Equal(60))
		Expect(resp.HasMore).To(BeFalse())

		far := v1.ScrollRequest{ScrollTop: 0, ViewportHeight: 600, ContentHeight: 20000}
		Expect(send(http.MethodPost, "/scroll", far).VisibleCount).To(Equal(60))
	})

	It("should reset the window on every filter change", func() {
		Expect(send(http.MethodPost, "/scroll", nil).VisibleCount).To(Equal(48))

		resp := send(http.MethodPut, "/vaulted", v1.VaultedRequest{Mode: "Available"})
		Expect(resp.FilteredCount).To(Equal(40))
		Expect(resp.VisibleCount).To(Equal(24))
		Expect(resp.State.VaultedMode()).To(Equal(filtering.VaultedAvailable))
	})

	It("should combine search, facets and year", func() {
		resp := send(http.MethodPut, "/search", v1.SearchRequest{Term: "marvel"})
		Expect(resp.FilteredCount).To(Equal(20))

		resp = send(http.MethodPost, "/facets/category/toggle", v1.ToggleRequest{Value: "Pop!"})
		Expect(resp.FilteredCount).To(Equal(10))

		resp = send(http.MethodPost, "/facets/category/toggle", v1.ToggleRequest{Value: "Pop!"})
		Expect(resp.FilteredCount).To(Equal(20))

		resp = send(http.MethodPut, "/year", v1.YearRequest{Year: "2021"})
		Expect(resp.FilteredCount).To(BeZero())
		Expect(resp.Items).To(BeEmpty())

		resp = send(http.MethodDelete, "/filters", nil)
		Expect(resp.FilteredCount).To(Equal(60))
		Expect(resp.State.IsEmpty()).To(BeTrue())
		Expect(view().FilteredCount).To(Equal(60))
	})

	It("should reject invalid input", func() {
		resp, err := serverHelper.Do(http.MethodPut, sessionPath+"/vaulted", v1.VaultedRequest{Mode: "Sometimes"})
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

		resp, err = serverHelper.Do(http.MethodPost, sessionPath+"/facets/colour/toggle", v1.ToggleRequest{Value: "red"})
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should tear the session down", func() {
		resp, err := serverHelper.Do(http.MethodDelete, sessionPath, nil)
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

		resp, err = serverHelper.Get(sessionPath)
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})
})
