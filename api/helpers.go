package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.vocdoni.io/dvote/log"

	"github.com/apiforge/stripe-adapter/db"
	"github.com/apiforge/stripe-adapter/engine"
)

// userFromRequest helper function returns the authenticated user of the
// request. The authenticator middleware stores the user id in the X-User-Id
// header after validating the JWT token.
func (a *API) userFromRequest(r *http.Request) (*db.User, bool) {
	id, err := strconv.ParseUint(r.Header.Get("X-User-Id"), 10, 64)
	if err != nil {
		return nil, false
	}
	user, err := a.db.User(id)
	if err != nil {
		return nil, false
	}
	return user, true
}

// engineUser maps a stored user to the provider's view of it.
func engineUser(user *db.User) *engine.User {
	return &engine.User{
		ID:         int64(user.ID),
		Email:      user.Email,
		ExternalID: user.CustomerID,
	}
}

// engineProduct maps a stored product to the provider's view of it.
func engineProduct(product *db.Product) *engine.Product {
	return &engine.Product{
		ID:         int64(product.ID),
		Name:       product.Name,
		Price:      product.Price,
		Interval:   product.Interval,
		ExternalID: product.PriceID,
	}
}

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}
