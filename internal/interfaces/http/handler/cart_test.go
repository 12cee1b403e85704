package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	cartapp "github.com/shopapi/backend/internal/application/cart"
	"github.com/shopapi/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartHandler(t *testing.T) {
	app := newShopApp(t)
	admin := app.registerAdmin("root")
	alice := app.register("alice")

	shirt := app.createProduct(admin.AccessToken, map[string]interface{}{
		"name":  "Linen Shirt",
		"price": "40",
		"stock": 1,
		"sizes": []map[string]interface{}{{"value": "M", "stock": 3}},
	})
	scarf := app.createProduct(admin.AccessToken, map[string]interface{}{
		"name": "Wool Scarf", "price": "25", "stock": 5, "on_sale": true, "sale_price": "20",
	})

	w := app.do(http.MethodGet, "/api/v1/cart", nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	empty, _ := testutil.DecodeResponse[cartapp.CartResponse](t, w)
	assert.Empty(t, empty.Items)

	add := func(req cartapp.AddItemRequest) cartapp.CartResponse {
		t.Helper()
		w := app.do(http.MethodPost, "/api/v1/cart/items", req, alice.AccessToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp, _ := testutil.DecodeResponse[cartapp.CartResponse](t, w)
		return resp
	}

	add(cartapp.AddItemRequest{ProductID: shirt.ID, Quantity: 2, Size: "M"})
	cart := add(cartapp.AddItemRequest{ProductID: scarf.ID, Quantity: 2})
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 4, cart.ItemCount)
	assert.Equal(t, "120", cart.TotalPrice.String())

	t.Run("merging lines respects variant stock", func(t *testing.T) {
		w := app.do(http.MethodPost, "/api/v1/cart/items",
			cartapp.AddItemRequest{ProductID: shirt.ID, Quantity: 2, Size: "M"}, alice.AccessToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		testutil.AssertErrorCode(t, w, "INSUFFICIENT_STOCK")
	})

	t.Run("unknown product", func(t *testing.T) {
		w := app.do(http.MethodPost, "/api/v1/cart/items",
			cartapp.AddItemRequest{ProductID: uuid.New(), Quantity: 1}, alice.AccessToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update quantity", func(t *testing.T) {
		w := app.do(http.MethodPut, "/api/v1/cart/items", map[string]interface{}{
			"product_id": scarf.ID, "quantity": 1,
		}, alice.AccessToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		cart, _ := testutil.DecodeResponse[cartapp.CartResponse](t, w)
		assert.Equal(t, 3, cart.ItemCount)
		assert.Equal(t, "100", cart.TotalPrice.String())
	})

	t.Run("remove line by selector", func(t *testing.T) {
		w := app.do(http.MethodDelete, "/api/v1/cart/items/"+shirt.ID.String()+"?size=L", nil, alice.AccessToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
		testutil.AssertErrorCode(t, w, "CART_ITEM_NOT_FOUND")

		w = app.do(http.MethodDelete, "/api/v1/cart/items/"+shirt.ID.String()+"?size=M", nil, alice.AccessToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		cart, _ := testutil.DecodeResponse[cartapp.CartResponse](t, w)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, scarf.ID, cart.Items[0].ProductID)
	})

	t.Run("clear", func(t *testing.T) {
		w := app.do(http.MethodDelete, "/api/v1/cart", nil, alice.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)
		cart, _ := testutil.DecodeResponse[cartapp.CartResponse](t, w)
		assert.Empty(t, cart.Items)
		assert.True(t, cart.TotalPrice.IsZero())
	})
}

func TestWishlistHandler(t *testing.T) {
	app := newShopApp(t)
	admin := app.registerAdmin("root")
	alice := app.register("alice")
	shirt := app.createProduct(admin.AccessToken, map[string]interface{}{"name": "Linen Shirt", "price": "40"})

	w := app.do(http.MethodPost, "/api/v1/wishlist", cartapp.WishlistRequest{ProductID: shirt.ID}, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(http.MethodPost, "/api/v1/wishlist", cartapp.WishlistRequest{ProductID: shirt.ID}, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	list, _ := testutil.DecodeResponse[cartapp.WishlistResponse](t, w)
	require.Len(t, list.Items, 1, "adding twice keeps one entry")
	assert.Equal(t, "Linen Shirt", list.Items[0].Name)

	w = app.do(http.MethodPost, "/api/v1/wishlist", cartapp.WishlistRequest{ProductID: uuid.New()}, alice.AccessToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodDelete, "/api/v1/wishlist/"+uuid.NewString(), nil, alice.AccessToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodDelete, "/api/v1/wishlist/"+shirt.ID.String(), nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list, _ = testutil.DecodeResponse[cartapp.WishlistResponse](t, w)
	assert.Empty(t, list.Items)

	app.do(http.MethodPost, "/api/v1/wishlist", cartapp.WishlistRequest{ProductID: shirt.ID}, alice.AccessToken)
	assert.Equal(t, http.StatusNoContent, app.do(http.MethodDelete, "/api/v1/wishlist", nil, alice.AccessToken).Code)

	w = app.do(http.MethodGet, "/api/v1/wishlist", nil, alice.AccessToken)
	list, _ = testutil.DecodeResponse[cartapp.WishlistResponse](t, w)
	assert.Empty(t, list.Items)
}
