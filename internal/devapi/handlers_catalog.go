package devapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/pizza-admin/internal/jsonapi"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type toppingPayload struct {
	Topping models.CreateToppingRequest `json:"topping"`
}

type createPizzaPayload struct {
	Pizza models.CreatePizzaRequest `json:"pizza"`
}

type updatePizzaPayload struct {
	Pizza models.UpdatePizzaRequest `json:"pizza"`
}

// unprocessable answers 422 with field errors only, like a model validation failure
func unprocessable(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
}

func validationErrors(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = []string{ferr.Error()}
		}
		return out
	}
	out["base"] = []string{err.Error()}
	return out
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}

func (s *Server) internalError(c *gin.Context, err error, message string) {
	log.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// nameTaken reports whether another record of model already uses name
func (s *Server) nameTaken(tx *gorm.DB, model interface{}, name string, exceptID uint) (bool, error) {
	var count int64
	err := tx.Model(model).Where("LOWER(name) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(name)), exceptID).Count(&count).Error
	return count > 0, err
}

func (s *Server) listToppings(c *gin.Context) {
	var toppings []Topping
	if err := s.db.WithContext(c.Request.Context()).Order("id").Find(&toppings).Error; err != nil {
		s.internalError(c, err, "Failed to retrieve toppings")
		return
	}

	resources := make([]jsonapi.Resource, 0, len(toppings))
	for _, t := range toppings {
		resources = append(resources, jsonapi.ToppingResource(t.toModel()))
	}
	c.JSON(http.StatusOK, jsonapi.NewDocument(jsonapi.Many(resources), nil))
}

func (s *Server) findTopping(c *gin.Context, id uint) (*Topping, bool) {
	var topping Topping
	if err := s.db.WithContext(c.Request.Context()).First(&topping, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Topping not found"})
		} else {
			s.internalError(c, err, "Failed to retrieve topping")
		}
		return nil, false
	}
	return &topping, true
}

func (s *Server) getTopping(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	topping, ok := s.findTopping(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, jsonapi.NewDocument(jsonapi.One(jsonapi.ToppingResource(topping.toModel())), nil))
}

func (s *Server) createTopping(c *gin.Context) {
	s.saveTopping(c, &Topping{}, http.StatusCreated)
}

func (s *Server) updateTopping(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	topping, ok := s.findTopping(c, id)
	if !ok {
		return
	}
	s.saveTopping(c, topping, http.StatusOK)
}

func (s *Server) saveTopping(c *gin.Context, topping *Topping, status int) {
	var payload toppingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := payload.Topping.Validate(); err != nil {
		unprocessable(c, validationErrors(err))
		return
	}

	taken, err := s.nameTaken(s.db.WithContext(c.Request.Context()), &Topping{}, payload.Topping.Name, topping.ID)
	if err != nil {
		s.internalError(c, err, "Failed to save topping")
		return
	}
	if taken {
		unprocessable(c, map[string][]string{"name": {"has already been taken"}})
		return
	}

	topping.Name = strings.TrimSpace(payload.Topping.Name)
	topping.Price = decimal.RequireFromString(payload.Topping.Price)
	if err := s.db.WithContext(c.Request.Context()).Save(topping).Error; err != nil {
		s.internalError(c, err, "Failed to save topping")
		return
	}
	c.JSON(status, jsonapi.NewDocument(jsonapi.One(jsonapi.ToppingResource(topping.toModel())), nil))
}

func (s *Server) deleteTopping(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	topping, ok := s.findTopping(c, id)
	if !ok {
		return
	}

	var uses int64
	if err := s.db.WithContext(c.Request.Context()).Table("pizza_toppings").Where("topping_id = ?", id).Count(&uses).Error; err != nil {
		s.internalError(c, err, "Failed to delete topping")
		return
	}
	if uses > 0 {
		unprocessable(c, map[string][]string{"base": {"is used by existing pizzas"}})
		return
	}

	if err := s.db.WithContext(c.Request.Context()).Delete(topping).Error; err != nil {
		s.internalError(c, err, "Failed to delete topping")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) pizzaQuery(c *gin.Context) *gorm.DB {
	return s.db.WithContext(c.Request.Context()).Preload("Toppings")
}

func (s *Server) listPizzas(c *gin.Context) {
	var pizzas []Pizza
	if err := s.pizzaQuery(c).Order("id").Find(&pizzas).Error; err != nil {
		s.internalError(c, err, "Failed to retrieve pizzas")
		return
	}

	domain := make([]models.Pizza, 0, len(pizzas))
	resources := make([]jsonapi.Resource, 0, len(pizzas))
	for _, p := range pizzas {
		m := p.toModel()
		domain = append(domain, m)
		resources = append(resources, jsonapi.PizzaResource(m))
	}
	c.JSON(http.StatusOK, jsonapi.NewDocument(jsonapi.Many(resources), jsonapi.IncludedToppings(domain...)))
}

func (s *Server) findPizza(c *gin.Context, id uint) (*Pizza, bool) {
	var pizza Pizza
	if err := s.pizzaQuery(c).First(&pizza, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pizza not found"})
		} else {
			s.internalError(c, err, "Failed to retrieve pizza")
		}
		return nil, false
	}
	return &pizza, true
}

// renderPizza writes a single pizza document. With partial write relationships,
// write responses include the toppings as bare stubs without attributes.
func (s *Server) renderPizza(c *gin.Context, status int, pizza *Pizza, write bool) {
	m := pizza.toModel()
	included := jsonapi.IncludedToppings(m)
	if write && s.cfg.PartialWriteRelationships {
		for i := range included {
			included[i].Attributes = map[string]interface{}{}
		}
	}
	c.JSON(status, jsonapi.NewDocument(jsonapi.One(jsonapi.PizzaResource(m)), included))
}

func (s *Server) getPizza(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pizza, ok := s.findPizza(c, id)
	if !ok {
		return
	}
	s.renderPizza(c, http.StatusOK, pizza, false)
}

// resolveToppings loads the toppings with the given ids, reporting unknown ids as a 422
func (s *Server) resolveToppings(c *gin.Context, tx *gorm.DB, ids []int) ([]Topping, bool) {
	toppings := []Topping{}
	if len(ids) == 0 {
		return toppings, true
	}
	if err := tx.Where("id IN ?", ids).Find(&toppings).Error; err != nil {
		s.internalError(c, err, "Failed to load toppings")
		return nil, false
	}
	unique := map[int]bool{}
	for _, id := range ids {
		unique[id] = true
	}
	if len(toppings) != len(unique) {
		unprocessable(c, map[string][]string{"topping_ids": {"contains unknown toppings"}})
		return nil, false
	}
	return toppings, true
}

func (s *Server) createPizza(c *gin.Context) {
	var payload createPizzaPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req := payload.Pizza
	if err := req.Validate(); err != nil {
		unprocessable(c, validationErrors(err))
		return
	}

	db := s.db.WithContext(c.Request.Context())
	taken, err := s.nameTaken(db, &Pizza{}, req.Name, 0)
	if err != nil {
		s.internalError(c, err, "Failed to create pizza")
		return
	}
	if taken {
		unprocessable(c, map[string][]string{"name": {"has already been taken"}})
		return
	}
	toppings, ok := s.resolveToppings(c, db, req.ToppingIDs)
	if !ok {
		return
	}

	pizza := &Pizza{Name: strings.TrimSpace(req.Name), Description: req.Description, Toppings: toppings}
	if err := db.Omit("Toppings.*").Create(pizza).Error; err != nil {
		s.internalError(c, err, "Failed to create pizza")
		return
	}
	s.renderPizza(c, http.StatusCreated, pizza, true)
}

func (s *Server) updatePizza(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload updatePizzaPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req := payload.Pizza
	if err := req.Validate(); err != nil {
		unprocessable(c, validationErrors(err))
		return
	}

	pizza, ok := s.findPizza(c, id)
	if !ok {
		return
	}

	db := s.db.WithContext(c.Request.Context())
	if req.Name != "" {
		taken, err := s.nameTaken(db, &Pizza{}, req.Name, pizza.ID)
		if err != nil {
			s.internalError(c, err, "Failed to update pizza")
			return
		}
		if taken {
			unprocessable(c, map[string][]string{"name": {"has already been taken"}})
			return
		}
		pizza.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != "" {
		pizza.Description = req.Description
	}

	if req.ToppingIDs != nil {
		toppings, ok := s.resolveToppings(c, db, req.ToppingIDs)
		if !ok {
			return
		}
		if err := db.Model(pizza).Association("Toppings").Replace(toppings); err != nil {
			s.internalError(c, err, "Failed to update pizza")
			return
		}
		pizza.Toppings = toppings
	}

	if err := db.Omit("Toppings").Save(pizza).Error; err != nil {
		s.internalError(c, err, "Failed to update pizza")
		return
	}
	s.renderPizza(c, http.StatusOK, pizza, true)
}

func (s *Server) deletePizza(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pizza, ok := s.findPizza(c, id)
	if !ok {
		return
	}

	db := s.db.WithContext(c.Request.Context())
	if err := db.Model(pizza).Association("Toppings").Clear(); err != nil {
		s.internalError(c, err, "Failed to delete pizza")
		return
	}
	if err := db.Delete(&Pizza{}, pizza.ID).Error; err != nil {
		s.internalError(c, err, "Failed to delete pizza")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) dashboard(c *gin.Context) {
	var stats models.DashboardStatistics
	var toppings, pizzas, users int64
	db := s.db.WithContext(c.Request.Context())
	if err := db.Model(&Topping{}).Count(&toppings).Error; err != nil {
		s.internalError(c, err, "Failed to load dashboard")
		return
	}
	if err := db.Model(&Pizza{}).Count(&pizzas).Error; err != nil {
		s.internalError(c, err, "Failed to load dashboard")
		return
	}
	if err := db.Model(&User{}).Count(&users).Error; err != nil {
		s.internalError(c, err, "Failed to load dashboard")
		return
	}
	stats.TotalToppings = int(toppings)
	stats.TotalPizzas = int(pizzas)
	stats.TotalUsers = int(users)
	c.JSON(http.StatusOK, models.DashboardResponse{Dashboard: models.DashboardData{Statistics: stats}})
}
