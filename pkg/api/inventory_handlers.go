package api

import (
	"net/http"

	"github.com/opskit/stockroom/pkg/httputil"
	"github.com/opskit/stockroom/pkg/inventory"
	"github.com/opskit/stockroom/pkg/middleware"
)

// Products

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	records, err := s.inventory.ListProducts(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, records)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var fields inventory.Fields
	if !httputil.ParseJSONOrError(w, r, &fields) {
		return
	}

	rec, err := s.inventory.CreateProduct(r.Context(), fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteCreated(w, rec)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	rec, err := s.inventory.GetProduct(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, rec)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var fields inventory.Fields
	if !httputil.ParseJSONOrError(w, r, &fields) {
		return
	}

	rec, err := s.inventory.UpdateProduct(r.Context(), id, fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, rec)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.inventory.DeleteProduct(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

// Suppliers

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	records, err := s.inventory.ListSuppliers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, records)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var fields inventory.Fields
	if !httputil.ParseJSONOrError(w, r, &fields) {
		return
	}

	rec, err := s.inventory.CreateSupplier(r.Context(), fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteCreated(w, rec)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	rec, err := s.inventory.GetSupplier(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, rec)
}

func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var fields inventory.Fields
	if !httputil.ParseJSONOrError(w, r, &fields) {
		return
	}

	rec, err := s.inventory.UpdateSupplier(r.Context(), id, fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, rec)
}

func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.inventory.DeleteSupplier(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

// Customers

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	records, err := s.inventory.ListCustomers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, records)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var fields inventory.Fields
	if !httputil.ParseJSONOrError(w, r, &fields) {
		return
	}

	rec, err := s.inventory.CreateCustomer(r.Context(), fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteCreated(w, rec)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	rec, err := s.inventory.GetCustomer(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, rec)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var fields inventory.Fields
	if !httputil.ParseJSONOrError(w, r, &fields) {
		return
	}

	rec, err := s.inventory.UpdateCustomer(r.Context(), id, fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, rec)
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.inventory.DeleteCustomer(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

// Transactions

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	records, err := s.inventory.ListTransactions(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, records)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var fields inventory.Fields
	if !httputil.ParseJSONOrError(w, r, &fields) {
		return
	}

	var callerID int64
	if identity := middleware.GetIdentity(r); identity != nil {
		callerID = identity.UserID
	}

	rec, err := s.inventory.CreateTransaction(r.Context(), callerID, fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteCreated(w, rec)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	rec, err := s.inventory.GetTransaction(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, rec)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var fields inventory.Fields
	if !httputil.ParseJSONOrError(w, r, &fields) {
		return
	}

	rec, err := s.inventory.UpdateTransaction(r.Context(), id, fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, rec)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.inventory.DeleteTransaction(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}
