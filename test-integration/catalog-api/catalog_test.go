package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/popguide/catalog-server/internal/api/v1"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/test-integration/catalog-api/helpers"
)

var _ = Describe("Catalog Filtering", Label("filtering"), func() {
	var (
		tempDir      string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("catalog-filter-test-")
		catalogPath := helpers.WriteCatalogFile(tempDir, helpers.CreateTestRecords(40))

		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, helpers.WriteFileConfig(tempDir, catalogPath, 24))
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
		cleanupTempDir(tempDir)
	})

	total := func(query string) int {
		page := helpers.DecodeJSON[v1.ItemListResponse](serverHelper.Get("/v1/items?" + query))
		return page.Total
	}

	DescribeTable("filtered totals",
		func(query string, want int) {
			Expect(total(query)).To(Equal(want))
		},
		Entry("no filters", "", 40),
		Entry("vaulted only", "vaulted=Vaulted", 14),
		Entry("available only", "vaulted=Available", 26),
		Entry("sold out derives from vaulted", "status=Sold+Out", 14),
		Entry("new releases status from the tag", "status=New+Releases", 1),
		Entry("new releases edition from the tag", "edition=New+Releases", 1),
		Entry("literal edition", "edition=Exclusives", 8),
		Entry("values within a facet widen", "category=Pop!&category=Bitty+Pop!", 40),
		Entry("facets narrow each other", "category=Pop!&vaulted=Vaulted", 7),
		Entry("search is case-insensitive", "search=GOKU", 1),
		Entry("search matches series", "search=star+wars", 13),
		Entry("year", "year=2022", 40),
		Entry("year without items", "year=2019", 0),
		Entry("unknown status matches nothing", "status=Shipped", 0),
		Entry("all status matches everything", "status=All", 40),
	)

	It("should keep facet counts against the whole catalog", func() {
		resp := helpers.DecodeJSON[v1.FacetsResponse](serverHelper.Get("/v1/facets"))
		Expect(resp.Facets[facets.Category]).To(ContainElement(facets.Option{Value: "Pop!", Count: 20}))
		Expect(resp.Facets[facets.Status]).To(ContainElement(facets.Option{Value: "All", Count: 40}))
		Expect(resp.Facets[facets.Edition]).To(ContainElement(facets.Option{Value: "New Releases", Count: 1}))
		Expect(resp.Facets[facets.Year]).To(Equal([]facets.Option{{Value: "2022", Count: 40}}))
	})

	It("should search facet options without changing counts", func() {
		resp := helpers.DecodeJSON[v1.FacetOptionsResponse](serverHelper.Get("/v1/facets/series?q=star"))
		Expect(resp.Options).To(Equal([]facets.Option{{Value: "Star Wars", Count: 13}}))

		unknown, err := serverHelper.Get("/v1/facets/nope")
		Expect(err).NotTo(HaveOccurred())
		_ = unknown.Body.Close()
		Expect(unknown.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should return items with badges", func() {
		item := helpers.DecodeJSON[v1.ItemResponse](serverHelper.Get("/v1/items/pop-0000"))
		Expect(item.Item.Name).To(Equal("Goku"))
		Expect(item.Badges).To(ConsistOf(classify.BadgeNewRelease, classify.BadgeVaulted, classify.BadgeExclusive))

		resp, err := serverHelper.Get("/v1/items/missing")
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should require two normalized characters for quick search", func() {
		resp := helpers.DecodeJSON[v1.QuickSearchResponse](serverHelper.Get("/v1/quick-search?q=g"))
		Expect(resp.Items).To(BeEmpty())

		resp = helpers.DecodeJSON[v1.QuickSearchResponse](serverHelper.Get("/v1/quick-search?q=go-ku"))
		Expect(resp.Count).To(Equal(1))
	})

	It("should summarize the catalog", func() {
		stats := helpers.DecodeJSON[v1.StatsResponse](serverHelper.Get("/v1/stats"))
		Expect(stats.ItemCount).To(Equal(40))
		Expect(stats.VaultedCount).To(Equal(14))
		Expect(stats.RareCount).To(Equal(8))
		Expect(stats.Latest).To(HaveLen(24))
	})
})
