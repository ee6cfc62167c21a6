package integration

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/popguide/catalog-server/internal/api/v1"
	"github.com/popguide/catalog-server/internal/status"
	"github.com/popguide/catalog-server/test-integration/catalog-api/helpers"
)

var _ = Describe("API Source Integration", Label("api"), func() {
	var (
		tempDir      string
		mockAPI      *helpers.MockCatalogAPI
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("catalog-api-test-")
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
		}
		if mockAPI != nil {
			mockAPI.Close()
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

	It("should load every page of a paged endpoint", func() {
		mockAPI = helpers.NewMockCatalogAPI(helpers.CreateTestRecords(25), "")
		start(helpers.WriteAPIConfig(tempDir, mockAPI.Endpoint(), 10, ""))

		info := helpers.DecodeJSON[v1.InfoResponse](serverHelper.Get("/v1/info"))
		Expect(info.Phase).To(Equal(status.LoadPhaseLoaded))
		Expect(info.ItemCount).To(Equal(25))
		Expect(mockAPI.Requests()).To(BeNumerically(">=", 3))

		page := helpers.DecodeJSON[v1.ItemListResponse](serverHelper.Get("/v1/items?search=goku"))
		Expect(page.Total).To(Equal(1))
	})

	It("should send the configured api key", func() {
		mockAPI = helpers.NewMockCatalogAPI(helpers.CreateTestRecords(3), "secret-key")

		keyFile := filepath.Join(tempDir, "api-key")
		Expect(os.WriteFile(keyFile, []byte("secret-key\n"), 0600)).To(Succeed())

		configPath := helpers.WriteAPIConfig(tempDir, mockAPI.Endpoint(), 10, keyFile)
		start(configPath)

		info := helpers.DecodeJSON[v1.InfoResponse](serverHelper.Get("/v1/info"))
		Expect(info.Phase).To(Equal(status.LoadPhaseLoaded))
		Expect(info.ItemCount).To(Equal(3))
	})

	It("should present an empty catalog when the endpoint rejects requests", func() {
		mockAPI = helpers.NewMockCatalogAPI(helpers.CreateTestRecords(3), "expected-key")
		start(helpers.WriteAPIConfig(tempDir, mockAPI.Endpoint(), 10, ""))

		info := helpers.DecodeJSON[v1.InfoResponse](serverHelper.Get("/v1/info"))
		Expect(info.Phase).To(Equal(status.LoadPhaseFailed))

		page := helpers.DecodeJSON[v1.ItemListResponse](serverHelper.Get("/v1/items"))
		Expect(page.Total).To(BeZero())
	})
})
