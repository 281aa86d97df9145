package handler

import (
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/3lielnashar/Customers-map/docs"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds the HTTP settings that shape the router.
type RouterConfig struct {
	Logger         zerolog.Logger
	AllowOrigins   []string
	MaxUploadBytes int64
	// StaticDir, when set, serves the map front end: index.html at / and
	// the directory itself under /static.
	StaticDir  string
	MapsAPIKey string
}

// NewRouter wires the handlers onto a gin engine.
func NewRouter(cfg RouterConfig, customers *CustomerHandler, exchange *ExchangeHandler, maps *MapsHandler) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.AllowOrigins))
	r.Use(BodyLimit(cfg.MaxUploadBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/customers", customers.List)
		api.POST("/customers", customers.Create)
		api.GET("/customers/export", exchange.Export)
		api.POST("/customers/import", exchange.Import)
		api.GET("/customers/search/:name", customers.Search)
		api.DELETE("/customers/name/:name", customers.DeleteByName)
		api.GET("/customers/:id", customers.Get)
		api.PUT("/customers/:id", customers.Update)
		api.DELETE("/customers/:id", customers.Delete)

		api.GET("/places/search", maps.SearchPlaces)
		api.GET("/directions", maps.Directions)
	}

	if cfg.StaticDir != "" {
		mountFrontEnd(r, cfg)
	}

	return r
}

func mountFrontEnd(r *gin.Engine, cfg RouterConfig) {
	r.Static("/static", cfg.StaticDir)

	index := filepath.Join(cfg.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		cfg.Logger.Warn().Str("path", index).Msg("index.html not found, / is not served")
		return
	}

	r.LoadHTMLFiles(index)
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{"GoogleMapsAPIKey": cfg.MapsAPIKey})
	})
}
