package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

func TestAddItemAccumulatesQuantity(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testLogger())
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "laptops")
	product := seedProduct(t, db, category.ID, "thinkpad", 10, 5)

	cart, err := carts.AddItem(user.ID, product.ID, 4)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 4, cart.Items[0].Quantity)
	require.Equal(t, 40.0, cart.Items[0].TotalPrice)

	// Each add is checked against stock on its own, so the cart may hold more
	// than the shelf; the shortfall surfaces at order time.
	cart, err = carts.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 6, cart.Items[0].Quantity)
	require.Equal(t, 60.0, cart.Items[0].TotalPrice)
}

func TestAddItemStockAndValidation(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testLogger())
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "laptops")
	product := seedProduct(t, db, category.ID, "thinkpad", 10, 5)

	_, err := carts.AddItem(user.ID, product.ID, 6)
	require.True(t, apperrors.Is(err, apperrors.InsufficientStock))

	_, err = carts.AddItem(user.ID, product.ID, 0)
	require.True(t, apperrors.Is(err, apperrors.Validation))

	_, err = carts.AddItem(user.ID, "no-such-product", 1)
	require.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestAddItemKeepsCapturedUnitPrice(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testLogger())
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "laptops")
	product := seedProduct(t, db, category.ID, "thinkpad", 10, 50)

	_, err := carts.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, db.Model(product).Update("price", 15.0).Error)

	cart, err := carts.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 3, cart.Items[0].Quantity)
	require.Equal(t, 10.0, cart.Items[0].UnitPrice)
	require.Equal(t, 30.0, cart.Items[0].TotalPrice)
}

func TestUpdateItemsReSnapshotsAndRemoves(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testLogger())
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "laptops")
	keyboard := seedProduct(t, db, category.ID, "keyboard", 10, 50)
	mouse := seedProduct(t, db, category.ID, "mouse", 5, 50)

	_, err := carts.AddItem(user.ID, keyboard.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddItem(user.ID, mouse.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Model(keyboard).Update("price", 15.0).Error)

	cart, err := carts.UpdateItems(user.ID, []CartItemUpdate{
		{ProductID: keyboard.ID, Quantity: 3},
		{ProductID: mouse.ID, Quantity: 0},
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, keyboard.ID, cart.Items[0].ProductID)
	require.Equal(t, 3, cart.Items[0].Quantity)
	require.Equal(t, 15.0, cart.Items[0].UnitPrice)
	require.Equal(t, 45.0, cart.Items[0].TotalPrice)
}

func TestUpdateItemsUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testLogger())
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "laptops")
	product := seedProduct(t, db, category.ID, "thinkpad", 10, 5)

	_, err := carts.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = carts.UpdateItems(user.ID, []CartItemUpdate{{ProductID: "no-such-product", Quantity: 2}})
	require.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestGetByUserMissingCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testLogger())
	user := seedUser(t, db, "alice")

	_, err := carts.GetByUser(user.ID)
	require.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestOneCartPerUser(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testLogger())
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "laptops")
	keyboard := seedProduct(t, db, category.ID, "keyboard", 10, 50)
	mouse := seedProduct(t, db, category.ID, "mouse", 5, 50)

	_, err := carts.AddItem(user.ID, keyboard.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(user.ID, mouse.ID, 1)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
