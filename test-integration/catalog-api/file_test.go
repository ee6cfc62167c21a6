package integration

import (
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/popguide/catalog-server/internal/api/v1"
	"github.com/popguide/catalog-server/internal/status"
	"github.com/popguide/catalog-server/test-integration/catalog-api/helpers"
)

var _ = Describe("File Source Integration", Label("file"), func() {
	var (
		tempDir      string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("catalog-file-test-")
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
		}
		cleanupTempDir(tempDir)
	})

	start := func(configPath string) {
		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, configPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	}

	Context("Loading from a local file", func() {
		BeforeEach(func() {
			catalogPath := helpers.WriteCatalogFile(tempDir, helpers.CreateTestRecords(40))
			start(helpers.WriteFileConfig(tempDir, catalogPath, 24))
		})

		It("should report the loaded catalog", func() {
			info := helpers.DecodeJSON[v1.InfoResponse](serverHelper.Get("/v1/info"))
			Expect(info.Phase).To(Equal(status.LoadPhaseLoaded))
			Expect(info.ItemCount).To(Equal(40))
			Expect(info.CatalogName).To(Equal("integration"))
			Expect(info.Generation).To(BeNumerically(">", 0))
		})

		It("should page through every item in catalog order", func() {
			var ids []string
			cursor := ""
			for range 10 {
				path := "/v1/items?limit=15"
				if cursor != "" {
					path += "&cursor=" + url.QueryEscape(cursor)
				}
				page := helpers.DecodeJSON[v1.ItemListResponse](serverHelper.Get(path))
				Expect(page.Total).To(Equal(40))
				for _, item := range page.Items {
					ids = append(ids, item.Item.ID)
				}
				cursor = page.NextCursor
				if cursor == "" {
					break
				}
			}
			Expect(ids).To(HaveLen(40))
			Expect(ids[0]).To(Equal("pop-0000"))
			Expect(ids[39]).To(Equal("pop-0039"))
		})

		It("should default the page size to 24", func() {
			page := helpers.DecodeJSON[v1.ItemListResponse](serverHelper.Get("/v1/items"))
			Expect(page.Count).To(Equal(24))
			Expect(page.NextCursor).NotTo(BeEmpty())
		})
	})

	Context("With a missing file", func() {
		It("should become ready with an empty catalog", func() {
			start(helpers.WriteFileConfig(tempDir, filepath.Join(tempDir, "missing.json"), 24))

			info := helpers.DecodeJSON[v1.InfoResponse](serverHelper.Get("/v1/info"))
			Expect(info.Phase).To(Equal(status.LoadPhaseFailed))
			Expect(info.ItemCount).To(BeZero())

			page := helpers.DecodeJSON[v1.ItemListResponse](serverHelper.Get("/v1/items"))
			Expect(page.Total).To(BeZero())
			Expect(page.Items).To(BeEmpty())
		})
	})

	Context("Health endpoints", func() {
		It("should serve health and version", func() {
			catalogPath := helpers.WriteCatalogFile(tempDir, helpers.CreateTestRecords(1))
			start(helpers.WriteFileConfig(tempDir, catalogPath, 24))

			resp, err := serverHelper.Get("/health")
			Expect(err).NotTo(HaveOccurred())
			_ = resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			version := helpers.DecodeJSON[map[string]any](serverHelper.Get("/version"))
			Expect(version).To(HaveKey("version"))
		})
	})
})
