package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bakery-app/hub"
	"github.com/yeremiapane/bakery-app/models"
	"gorm.io/gorm"
)

// DefaultCategoryName is the category that collects products without one on
// the public menu.
const DefaultCategoryName = "Geral"

// CategoryInput carries the writable category fields. Nil fields are left
// untouched on update.
type CategoryInput struct {
	Nome      *string `json:"nome"`
	Descricao *string `json:"descricao"`
	Ordem     *int    `json:"ordem"`
	Ativa     *bool   `json:"ativa"`
}

// ProductInput carries the writable product fields. Nil fields are left
// untouched on update. An empty CategoriaID clears the category.
type ProductInput struct {
	Foto            *string  `json:"foto"`
	Nome            *string  `json:"nome"`
	Descricao       *string  `json:"descricao"`
	Valor           *float64 `json:"valor"`
	Estoque         *int     `json:"estoque"`
	Disponibilidade *bool    `json:"disponibilidade"`
	CategoriaID     *string  `json:"categoria_id"`
}

// MenuSection is one block of the public menu.
type MenuSection struct {
	Categoria *models.Category `json:"categoria"`
	Produtos  []models.Product `json:"produtos"`
}

// CatalogService owns categories and products.
type CatalogService struct {
	db  *gorm.DB
	log *logrus.Logger
	hub Broadcaster
}

func NewCatalogService(db *gorm.DB, log *logrus.Logger, b Broadcaster) *CatalogService {
	return &CatalogService{db: db, log: log, hub: b}
}

// ListCategories returns categories by ordem, then nome.
func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var categories []models.Category
	q := s.db.WithContext(ctx).Order("ordem ASC").Order("nome ASC")
	if activeOnly {
		q = q.Where("ativa = ?", true)
	}
	if err := q.Find(&categories).Error; err != nil {
		s.log.Errorf("Error fetching categories: %v", err)
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Nome == nil || strings.TrimSpace(*in.Nome) == "" {
		return nil, newValidationError("nome is required")
	}

	category := models.Category{
		Nome:  strings.TrimSpace(*in.Nome),
		Ativa: true,
	}
	applyCategory(&category, in)

	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		s.log.Errorf("Error creating category: %v", err)
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	s.log.Infof("Category %s created", category.Nome)
	return &category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Nome != nil && strings.TrimSpace(*in.Nome) == "" {
		return nil, newValidationError("nome cannot be empty")
	}

	applyCategory(category, in)
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		s.log.Errorf("Error updating category %s: %v", id, err)
		return nil, fmt.Errorf("error updating category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes the category and detaches its products.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("categoria_id = ?", id).
			Update("categoria_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, "id = ?", id).Error
	})
	if err != nil {
		s.log.Errorf("Error deleting category %s: %v", id, err)
		return fmt.Errorf("error deleting category: %w", err)
	}
	return nil
}

// ListProducts returns every product for the admin panel.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Preload("Categoria").Order("nome ASC").Find(&products).Error; err != nil {
		s.log.Errorf("Error fetching products: %v", err)
		return nil, fmt.Errorf("error fetching products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Categoria").First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "product")
	}
	return &product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	switch {
	case in.Nome == nil || strings.TrimSpace(*in.Nome) == "":
		return nil, newValidationError("nome is required")
	case in.Valor == nil:
		return nil, newValidationError("valor is required")
	case in.Estoque == nil:
		return nil, newValidationError("estoque is required")
	}

	product := models.Product{Disponibilidade: true}
	if err := s.applyProduct(ctx, &product, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		s.log.Errorf("Error creating product: %v", err)
		return nil, fmt.Errorf("error creating product: %w", err)
	}
	s.log.Infof("Product %s created with stock %d", product.Nome, product.Estoque)
	broadcast(s.hub, hub.EventProductUpdated, product)
	return &product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProduct(ctx, product, in); err != nil {
		return nil, err
	}

	// Categoria is reloaded below; saving the stale association would
	// overwrite the new categoria_id.
	product.Categoria = nil
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		s.log.Errorf("Error updating product %s: %v", id, err)
		return nil, fmt.Errorf("error updating product: %w", err)
	}

	updated, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	broadcast(s.hub, hub.EventProductUpdated, updated)
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		s.log.Errorf("Error deleting product %s: %v", id, result.Error)
		return fmt.Errorf("error deleting product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListAvailable returns the products a customer can order, sorted by
// category ordem, category nome and product nome. Products in an inactive
// category are left out; products without a category come last.
func (s *CatalogService) ListAvailable(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Categoria").
		Joins("LEFT JOIN categorias ON categorias.id = produtos.categoria_id").
		Where("produtos.disponibilidade = ? AND produtos.estoque > ?", true, 0).
		Where("categorias.id IS NULL OR categorias.ativa = ?", true).
		Find(&products).Error
	if err != nil {
		s.log.Errorf("Error fetching available products: %v", err)
		return nil, fmt.Errorf("error fetching available products: %w", err)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return productLess(products[i], products[j])
	})
	return products, nil
}

// Menu groups the available products by active category.
func (s *CatalogService) Menu(ctx context.Context) ([]MenuSection, error) {
	categories, err := s.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	products, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]models.Product)
	var loose []models.Product
	for _, p := range products {
		if p.CategoriaID == nil {
			loose = append(loose, p)
			continue
		}
		byCategory[*p.CategoriaID] = append(byCategory[*p.CategoriaID], p)
	}

	sections := make([]MenuSection, 0, len(categories)+1)
	for i := range categories {
		cat := categories[i]
		items := byCategory[cat.ID]
		if cat.Nome == DefaultCategoryName && len(loose) > 0 {
			items = append(items, loose...)
			loose = nil
		}
		if len(items) == 0 {
			continue
		}
		sections = append(sections, MenuSection{Categoria: &cat, Produtos: items})
	}
	if len(loose) > 0 {
		sections = append(sections, MenuSection{Produtos: loose})
	}
	return sections, nil
}

// DecrementStock takes quantity units out of stock. Stock never drops below
// zero and the product becomes unavailable once it reaches zero.
func (s *CatalogService) DecrementStock(ctx context.Context, id string, quantity int) (*models.Product, error) {
	var product *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := decrementStock(tx, id, quantity)
		product = p
		return err
	})
	if err != nil {
		return nil, err
	}
	broadcast(s.hub, hub.EventProductUpdated, product)
	return product, nil
}

func decrementStock(tx *gorm.DB, id string, quantity int) (*models.Product, error) {
	if quantity < 1 {
		return nil, newValidationError("quantity must be at least 1")
	}
	var product models.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "product")
	}

	stock := product.Estoque - quantity
	if stock < 0 {
		stock = 0
	}
	product.Estoque = stock
	product.Disponibilidade = stock > 0

	err := tx.Model(&product).Updates(map[string]interface{}{
		"estoque":         product.Estoque,
		"disponibilidade": product.Disponibilidade,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("error updating stock of %s: %w", id, err)
	}
	return &product, nil
}

func (s *CatalogService) applyProduct(ctx context.Context, p *models.Product, in ProductInput) error {
	if in.Nome != nil {
		if strings.TrimSpace(*in.Nome) == "" {
			return newValidationError("nome cannot be empty")
		}
		p.Nome = strings.TrimSpace(*in.Nome)
	}
	if in.Valor != nil {
		if *in.Valor < 0 {
			return newValidationError("valor cannot be negative")
		}
		p.Valor = *in.Valor
	}
	if in.Estoque != nil {
		if *in.Estoque < 0 {
			return newValidationError("estoque cannot be negative")
		}
		p.Estoque = *in.Estoque
	}
	if in.Foto != nil {
		p.Foto = *in.Foto
	}
	if in.Descricao != nil {
		p.Descricao = *in.Descricao
	}
	if in.Disponibilidade != nil {
		p.Disponibilidade = *in.Disponibilidade
	}
	if in.CategoriaID != nil {
		if *in.CategoriaID == "" {
			p.CategoriaID = nil
		} else {
			if _, err := s.GetCategory(ctx, *in.CategoriaID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return newValidationError("categoria_id does not exist")
				}
				return err
			}
			id := *in.CategoriaID
			p.CategoriaID = &id
		}
	}
	return nil
}

func applyCategory(c *models.Category, in CategoryInput) {
	if in.Nome != nil {
		c.Nome = strings.TrimSpace(*in.Nome)
	}
	if in.Descricao != nil {
		c.Descricao = *in.Descricao
	}
	if in.Ordem != nil {
		c.Ordem = *in.Ordem
	}
	if in.Ativa != nil {
		c.Ativa = *in.Ativa
	}
}

func productLess(a, b models.Product) bool {
	ca, cb := a.Categoria, b.Categoria
	switch {
	case ca == nil && cb != nil:
		return false
	case ca != nil && cb == nil:
		return true
	case ca != nil && cb != nil:
		if ca.Ordem != cb.Ordem {
			return ca.Ordem < cb.Ordem
		}
		if ca.Nome != cb.Nome {
			return ca.Nome < cb.Nome
		}
	}
	return a.Nome < b.Nome
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("error fetching %s: %w", what, err)
}
