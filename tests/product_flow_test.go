package tests

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shirfam/shirfam-backend/app/dto"
	businessflow "github.com/shirfam/shirfam-backend/business_flow"
	"github.com/shirfam/shirfam-backend/config"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	testingutil "github.com/shirfam/shirfam-backend/testing"
	"github.com/shirfam/shirfam-backend/utils"
)

func newProductFlow(testDB *testingutil.TestDB, baseDir string) (businessflow.ProductFlow, repository.ProductRepository) {
	productRepo := repository.NewProductRepository(testDB.DB)
	flow := businessflow.NewProductFlow(productRepo, config.UploadsConfig{
		BaseDir:     baseDir,
		MaxFileSize: 2 << 20,
	})
	return flow, productRepo
}

// pngBytes renders a small solid image so uploads carry real image content.
func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 255, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestProductCatalog(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow, productRepo := newProductFlow(testDB, t.TempDir())
		ctx := context.Background()

		t.Run("CreateAndGet", func(t *testing.T) {
			created, err := flow.CreateProduct(ctx, &dto.CreateProductRequest{
				Name:      "Whole Milk 1L",
				Unit:      models.ProductUnitBottle,
				UnitPrice: 45000,
				Stock:     100,
			})
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(created.IsActive))

			fetched, err := flow.GetProduct(ctx, created.UUID)
			require.NoError(t, err)
			assert.Equal(t, "Whole Milk 1L", fetched.Name)
			assert.Equal(t, uint64(45000), fetched.UnitPrice)
		})

		t.Run("ListShowsOnlyActive", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			visible, err := fixtures.CreateTestProduct("Yogurt 900g", 60000, 50)
			require.NoError(t, err)
			hidden, err := fixtures.CreateTestProduct("Butter 250g", 80000, 20)
			require.NoError(t, err)
			require.NoError(t, productRepo.Deactivate(ctx, hidden.ID))

			result, err := flow.ListProducts(ctx, &dto.ListProductsRequest{})
			require.NoError(t, err)
			require.Len(t, result.Products, 1)
			assert.Equal(t, visible.UUID.String(), result.Products[0].UUID)
		})

		t.Run("PartialUpdate", func(t *testing.T) {
			product, err := fixtures.CreateTestProduct("Cream 200g", 55000, 30)
			require.NoError(t, err)

			price := uint64(58000)
			updated, err := flow.UpdateProduct(ctx, product.UUID.String(), &dto.UpdateProductRequest{
				UnitPrice: &price,
			})
			require.NoError(t, err)
			assert.Equal(t, price, updated.UnitPrice)
			// Untouched fields keep their values
			assert.Equal(t, "Cream 200g", updated.Name)
			assert.Equal(t, int64(30), updated.Stock)
		})

		t.Run("DeactivateHidesFromCustomers", func(t *testing.T) {
			product, err := fixtures.CreateTestProduct("Cheese 400g", 120000, 10)
			require.NoError(t, err)

			require.NoError(t, flow.DeactivateProduct(ctx, product.UUID.String()))

			_, err = flow.GetProduct(ctx, product.UUID.String())
			require.Error(t, err)
			assert.True(t, businessflow.IsProductNotFound(err))
		})

		t.Run("UnknownProduct", func(t *testing.T) {
			_, err := flow.GetProduct(ctx, "00000000-0000-4000-8000-000000000000")
			require.Error(t, err)
			assert.True(t, businessflow.IsProductNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProductImages(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow, _ := newProductFlow(testDB, t.TempDir())
		ctx := context.Background()

		product, err := fixtures.CreateTestProduct("Whole Milk 1L", 45000, 100)
		require.NoError(t, err)

		t.Run("UploadAndServe", func(t *testing.T) {
			payload := pngBytes(t, 32, 32)

			updated, err := flow.UploadProductImage(ctx, product.UUID.String(),
				"milk.png", bytes.NewReader(payload), int64(len(payload)))
			require.NoError(t, err)
			require.NotNil(t, updated.ImageURL)

			fname, contentType, data, err := flow.ProductImage(ctx, product.UUID.String())
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(fname, ".jpg"))
			assert.Equal(t, "image/jpeg", contentType)
			assert.NotEmpty(t, data)
		})

		t.Run("RejectsNonImageContent", func(t *testing.T) {
			payload := []byte("%PDF-1.4 definitely not an image")
			_, err := flow.UploadProductImage(ctx, product.UUID.String(),
				"invoice.png", bytes.NewReader(payload), int64(len(payload)))
			require.Error(t, err)
		})

		t.Run("RejectsBadExtension", func(t *testing.T) {
			payload := pngBytes(t, 8, 8)
			_, err := flow.UploadProductImage(ctx, product.UUID.String(),
				"milk.svg", bytes.NewReader(payload), int64(len(payload)))
			require.Error(t, err)
		})

		t.Run("RejectsOversizedFile", func(t *testing.T) {
			payload := pngBytes(t, 8, 8)
			_, err := flow.UploadProductImage(ctx, product.UUID.String(),
				"milk.png", bytes.NewReader(payload), 10<<20)
			require.Error(t, err)
		})

		t.Run("NoImageStored", func(t *testing.T) {
			bare, err := fixtures.CreateTestProduct("Yogurt 900g", 60000, 50)
			require.NoError(t, err)

			_, _, _, err = flow.ProductImage(ctx, bare.UUID.String())
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
