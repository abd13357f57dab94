package businessflow

import (
	"bytes"
	"context"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/jpeg"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/config"
	"github.com/shirfam/shirfam-backend/models"
	"github.com/shirfam/shirfam-backend/repository"
	"github.com/shirfam/shirfam-backend/utils"
)

// ProductFlow covers the public catalog and the admin catalog management
type ProductFlow interface {
	ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	GetProduct(ctx context.Context, productUUID string) (*dto.ProductDTO, error)
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductDTO, error)
	UpdateProduct(ctx context.Context, productUUID string, req *dto.UpdateProductRequest) (*dto.ProductDTO, error)
	DeactivateProduct(ctx context.Context, productUUID string) error
	UploadProductImage(ctx context.Context, productUUID string, filename string, file io.Reader, fileSize int64) (*dto.ProductDTO, error)
	ProductImage(ctx context.Context, productUUID string) (string, string, []byte, error)
}

// ProductFlowImpl implements ProductFlow
type ProductFlowImpl struct {
	productRepo   repository.ProductRepository
	uploadsConfig config.UploadsConfig
}

// NewProductFlow creates a new product flow instance
func NewProductFlow(productRepo repository.ProductRepository, uploadsConfig config.UploadsConfig) ProductFlow {
	if uploadsConfig.BaseDir == "" {
		uploadsConfig.BaseDir = filepath.Join("data", "uploads")
	}
	if uploadsConfig.MaxFileSize <= 0 {
		uploadsConfig.MaxFileSize = 10 * 1024 * 1024
	}
	return &ProductFlowImpl{
		productRepo:   productRepo,
		uploadsConfig: uploadsConfig,
	}
}

var allowedProductImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ListProducts lists active catalog products for customers
func (f *ProductFlowImpl) ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Product listing failed", err)
	}

	products, err := f.productRepo.ListActive(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Product listing failed", err)
	}

	total, err := f.productRepo.Count(ctx, models.ProductFilter{IsActive: utils.ToPtr(true)})
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Product listing failed", err)
	}

	dtos := make([]dto.ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, ToProductDTO(*product))
	}

	return &dto.ListProductsResponse{
		Products: dtos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetProduct returns one catalog product
func (f *ProductFlowImpl) GetProduct(ctx context.Context, productUUID string) (*dto.ProductDTO, error) {
	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LOOKUP_FAILED", "Product lookup failed", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}

	productDTO := ToProductDTO(*product)
	return &productDTO, nil
}

// CreateProduct adds a catalog product
func (f *ProductFlowImpl) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductDTO, error) {
	product := &models.Product{
		UUID:        uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Stock:       req.Stock,
		IsActive:    utils.ToPtr(true),
	}

	if err := f.productRepo.Save(ctx, product); err != nil {
		return nil, NewBusinessError("PRODUCT_CREATE_FAILED", "Product creation failed", err)
	}

	productDTO := ToProductDTO(*product)
	return &productDTO, nil
}

// UpdateProduct edits a catalog product; absent fields keep their value
func (f *ProductFlowImpl) UpdateProduct(ctx context.Context, productUUID string, req *dto.UpdateProductRequest) (*dto.ProductDTO, error) {
	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_UPDATE_FAILED", "Product update failed", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = req.IsActive
	}

	if err := f.productRepo.Update(ctx, product); err != nil {
		return nil, NewBusinessError("PRODUCT_UPDATE_FAILED", "Product update failed", err)
	}

	productDTO := ToProductDTO(*product)
	return &productDTO, nil
}

// DeactivateProduct hides a product from the catalog
func (f *ProductFlowImpl) DeactivateProduct(ctx context.Context, productUUID string) error {
	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return NewBusinessError("PRODUCT_DEACTIVATE_FAILED", "Product deactivation failed", err)
	}
	if product == nil {
		return NewBusinessError("PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}

	if err := f.productRepo.Deactivate(ctx, product.ID); err != nil {
		return NewBusinessError("PRODUCT_DEACTIVATE_FAILED", "Product deactivation failed", err)
	}

	return nil
}

// UploadProductImage stores the product image on disk, downscaled to a bounded
// size, and records its path on the product.
func (f *ProductFlowImpl) UploadProductImage(ctx context.Context, productUUID string, filename string, file io.Reader, fileSize int64) (*dto.ProductDTO, error) {
	if file == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "file is required", nil)
	}
	if fileSize <= 0 {
		return nil, NewBusinessError("INVALID_FILE", "file size is required", nil)
	}
	if fileSize > f.uploadsConfig.MaxFileSize {
		return nil, NewBusinessError("FILE_TOO_LARGE", "file size exceeds the upload limit", nil)
	}

	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_IMAGE_FAILED", "Product image upload failed", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedProductImageExts[ext] {
		return nil, NewBusinessError("INVALID_FILE_TYPE", "allowed file types: jpg, jpeg, png, webp", nil)
	}

	storedPath, err := f.saveProductImageToDisk(file, ext)
	if err != nil {
		return nil, err
	}

	oldPath := product.ImagePath
	product.ImagePath = &storedPath
	if err := f.productRepo.Update(ctx, product); err != nil {
		_ = os.Remove(filepath.FromSlash(storedPath))
		return nil, NewBusinessError("PRODUCT_IMAGE_FAILED", "Product image upload failed", err)
	}
	if oldPath != nil {
		_ = os.Remove(filepath.FromSlash(*oldPath))
	}

	productDTO := ToProductDTO(*product)
	return &productDTO, nil
}

// ProductImage returns the stored image bytes for serving
func (f *ProductFlowImpl) ProductImage(ctx context.Context, productUUID string) (string, string, []byte, error) {
	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return "", "", nil, err
	}
	if product == nil || product.ImagePath == nil {
		return "", "", nil, NewBusinessError("PRODUCT_IMAGE_NOT_FOUND", "product image not found", ErrProductNotFound)
	}

	cleanPath, err := f.sanitizeProductImagePath(*product.ImagePath)
	if err != nil {
		return "", "", nil, err
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", "", nil, err
	}

	fname := filepath.Base(cleanPath)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fname)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return fname, contentType, data, nil
}

func (f *ProductFlowImpl) saveProductImageToDisk(reader io.Reader, ext string) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	head = head[:n]

	detected := http.DetectContentType(head)
	if detected != "application/octet-stream" && !strings.HasPrefix(detected, "image/") {
		return "", NewBusinessError("INVALID_FILE_TYPE", "file content is not an image", nil)
	}

	fullReader := io.MultiReader(bytes.NewReader(head), reader)
	limited := io.LimitReader(fullReader, f.uploadsConfig.MaxFileSize+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return "", err
	}
	if int64(len(raw)) > f.uploadsConfig.MaxFileSize {
		return "", NewBusinessError("FILE_TOO_LARGE", "file size exceeds the upload limit", nil)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", NewBusinessError("INVALID_FILE_TYPE", "file could not be decoded as an image", err)
	}

	resized := resizeImage(img, 1024)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}

	dateDir := utils.UTCNow().Format("2006-01-02")
	baseDir := filepath.Join(f.uploadsConfig.BaseDir, "products", dateDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ".jpg"
	fullPath := filepath.Join(baseDir, filename)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return "", err
	}

	return filepath.ToSlash(fullPath), nil
}

func (f *ProductFlowImpl) sanitizeProductImagePath(path string) (string, error) {
	if path == "" {
		return "", NewBusinessError("INVALID_PATH", "path is empty", nil)
	}
	cleaned := filepath.ToSlash(filepath.Clean(filepath.FromSlash(path)))
	base := filepath.ToSlash(filepath.Clean(filepath.Join(f.uploadsConfig.BaseDir, "products")))
	if !strings.HasPrefix(cleaned, base) {
		return "", NewBusinessError("INVALID_PATH", "path is outside allowed directory", nil)
	}
	return filepath.FromSlash(cleaned), nil
}

func resizeImage(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		nh = maxDim
		nw = int(float64(w) * float64(maxDim) / float64(h))
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	imagedraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, imagedraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
