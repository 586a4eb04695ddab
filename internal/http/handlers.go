package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"supermarket/internal/domain"
	"supermarket/internal/menu"
	"supermarket/internal/repository"
	"supermarket/internal/service"
	"supermarket/internal/session"
)

const roleKey = "role"

// Server HTTP-вход в ту же сессию, что и консольное меню.
// Роль берётся из пути и ограничивает команды так же, как пункты меню.
type Server struct {
	engine  *gin.Engine
	session *session.Session
	log     *zap.Logger
}

func NewServer(s *session.Session, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery())
	srv := &Server{engine: r, session: s, log: log}
	srv.registerRoutes()
	return srv
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1/:role", s.resolveRole)
	{
		products := v1.Group("/products")
		products.GET("", allow(menu.CmdShow), s.listProducts)
		products.POST("", allow(menu.CmdInsert), s.insertProduct)
		products.DELETE(":id", allow(menu.CmdDelete), s.deleteProduct)
		products.POST(":id/restock", allow(menu.CmdRestock), s.restockProduct)
		products.POST(":id/sell", allow(menu.CmdSell), s.sellProduct)

		exports := v1.Group("/exports")
		exports.POST("inventory", allow(menu.CmdExportInventory), s.exportInventory)
		exports.POST("receipt", allow(menu.CmdExportReceipt), s.exportReceipt)
	}
}

func (s *Server) resolveRole(c *gin.Context) {
	role, ok := menu.RoleByKey(c.Param("role"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown role"})
		return
	}
	c.Set(roleKey, role)
	c.Next()
}

// allow пропускает запрос, только если команда есть в меню роли
func allow(cmd menu.Command) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.MustGet(roleKey).(menu.Role)
		if !role.Allows(cmd) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "command not allowed for role " + role.Key})
			return
		}
		c.Next()
	}
}

func (s *Server) listProducts(c *gin.Context) {
	list, err := s.session.List(c, repository.ProductFilter{NameSubstring: c.Query("q")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []domain.Product{}
	}
	c.JSON(http.StatusOK, list)
}

type insertProductReq struct {
	ID       *int64   `json:"id" binding:"required"`
	Name     string   `json:"name"`
	Quantity *int64   `json:"quantity" binding:"required"`
	Price    *float64 `json:"price" binding:"required"`
}

func (s *Server) insertProduct(c *gin.Context) {
	var req insertProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p := domain.Product{ID: *req.ID, Name: req.Name, Quantity: *req.Quantity, Price: *req.Price}
	if err := s.session.Insert(c, p); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.session.Delete(c, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type amountReq struct {
	Amount *int64 `json:"amount" binding:"required"`
}

func (s *Server) restockProduct(c *gin.Context) {
	id, amount, ok := bindAmount(c)
	if !ok {
		return
	}
	p, err := s.session.Restock(c, id, amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) sellProduct(c *gin.Context) {
	id, amount, ok := bindAmount(c)
	if !ok {
		return
	}
	sale, err := s.session.Sell(c, id, amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (s *Server) exportInventory(c *gin.Context) {
	path, err := s.session.ExportInventory(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

func (s *Server) exportReceipt(c *gin.Context) {
	path, err := s.session.ExportReceipt(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindAmount(c *gin.Context) (id, amount int64, ok bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, 0, false
	}
	var req amountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return 0, 0, false
	}
	return id, *req.Amount, true
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateID), errors.Is(err, session.ErrEmptyReceipt):
		return http.StatusConflict
	case errors.Is(err, service.ErrQuantityOutOfRange), errors.Is(err, service.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger пишет каждый запрос в zap вместо стандартного вывода gin
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
