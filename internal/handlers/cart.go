package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Maksimell/shop_backend/internal/middleware/auth"
	"github.com/Maksimell/shop_backend/internal/models"
	"github.com/Maksimell/shop_backend/internal/mykafka"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// CartItemDetail is a cart row joined with its product reference.
type CartItemDetail struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// AddToCart inserts unconditionally: adding the same product twice leaves two
// rows in the cart.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add the product to the cart"})
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add the product to the cart"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: product.ID,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": product.ID,
		"itemID":    item.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Product added to the cart successfully"})
}

// RemoveFromCart deletes the first matching row for (user, product). A miss
// is a 400, mirroring the add path.
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to remove the product from the cart"})
	}

	var item models.CartItem
	if err := h.DB.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to remove the product from the cart"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": item.ProductID,
		"itemID":    item.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Product removed from the cart successfully"})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	items := make([]CartItemDetail, 0)
	if err := h.DB.Table("cart_items").
		Select("cart_items.id, cart_items.product_id, products.name, products.price, products.description").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, items)
}

// Checkout clears the cart in one transaction. An already-empty cart still
// checks out successfully.
func (h *CartHandler) Checkout(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var cleared int64
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&models.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		cleared = result.RowsAffected
		return nil
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, map[string]any{
		"type":    "cart_checked_out",
		"userID":  userID,
		"cleared": cleared,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Checked out successfully"})
}
