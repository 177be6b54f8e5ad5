package service

import (
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartItemDetail 购物车条目视图
type CartItemDetail struct {
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	ShopID      uint         `json:"shop_id"`
	Price       models.Money `json:"price"`
	Quantity    int          `json:"quantity"`
	Subtotal    models.Money `json:"subtotal"`
	Available   bool         `json:"available"`
}

// CartView 购物车视图
type CartView struct {
	CartID      uint             `json:"cart_id"`
	Items       []CartItemDetail `json:"items"`
	TotalAmount models.Money     `json:"total_amount"`
}

// GetCart 获取用户购物车（不存在时惰性创建）
func (s *CartService) GetCart(userID uint) (*CartView, error) {
	cart, err := s.ensureCart(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	return buildCartView(cart, items), nil
}

// AddItem 加入购物车（同一商品重复加入时累加数量）
func (s *CartService) AddItem(userID, productID uint, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Status != constants.ProductStatusActive {
		return nil, ErrProductUnavailable
	}

	cart, err := s.ensureCart(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity+quantity); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}

	return s.refresh(cart)
}

// UpdateItemQuantity 修改条目数量
func (s *CartService) UpdateItemQuantity(userID, productID uint, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.ensureCart(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	return s.refresh(cart)
}

// RemoveItem 移除条目
func (s *CartService) RemoveItem(userID, productID uint) (*CartView, error) {
	cart, err := s.ensureCart(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if err := s.cartRepo.DeleteItem(cart.ID, productID); err != nil {
		return nil, err
	}
	return s.refresh(cart)
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(userID uint) (*CartView, error) {
	cart, err := s.ensureCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteAllItems(cart.ID); err != nil {
		return nil, err
	}
	return s.refresh(cart)
}

func (s *CartService) ensureCart(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// refresh 重算购物车总额并返回最新视图
func (s *CartService) refresh(cart *models.Cart) (*CartView, error) {
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	view := buildCartView(cart, items)
	if err := s.cartRepo.UpdateTotal(cart.ID, view.TotalAmount); err != nil {
		return nil, err
	}
	return view, nil
}

func buildCartView(cart *models.Cart, items []models.CartItem) *CartView {
	view := &CartView{
		CartID: cart.ID,
		Items:  make([]CartItemDetail, 0, len(items)),
	}
	total := decimal.Zero
	for _, item := range items {
		detail := CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			detail.ProductName = item.Product.Name
			detail.ShopID = item.Product.ShopID
			detail.Price = item.Product.Price
			detail.Available = item.Product.Status == constants.ProductStatusActive
			detail.Subtotal = models.NewMoneyFromDecimal(
				item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			total = total.Add(detail.Subtotal.Decimal)
		}
		view.Items = append(view.Items, detail)
	}
	view.TotalAmount = models.NewMoneyFromDecimal(total)
	return view
}
