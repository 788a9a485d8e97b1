// Package stats 汇总文档中的统计数据
package stats

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zzliekkas/autodoc/models"
	"github.com/zzliekkas/autodoc/routes"
)

// 数据库信息缺失时的占位值
const (
	UnknownDriver   = "unknown"
	UnknownDatabase = "N/A"
)

// Database 数据库连接信息
type Database struct {
	Driver   string `json:"driver"`
	Database string `json:"database"`
}

// Stats 统计数据
type Stats struct {
	RoutesCount                  int      `json:"routes_count"`
	WebRoutesCount               int      `json:"web_routes_count"`
	APIRoutesCount               int      `json:"api_routes_count"`
	ControllersCount             int      `json:"controllers_count"`
	CustomControllersCount       int      `json:"custom_controllers_count"`
	ModelsCount                  int      `json:"models_count"`
	ModelsWithRelationshipsCount int      `json:"models_with_relationships_count"`
	MigrationsCount              int      `json:"migrations_count"`
	PackagesCount                int      `json:"packages_count"`
	LinesOfCode                  int      `json:"lines_of_code"`
	Database                     Database `json:"database"`
	Language                     string   `json:"language"`
}

// Input 统计所需的已收集数据
type Input struct {
	Routes      []routes.Route
	Controllers int
	Models      map[string]*models.Model
	Migrations  int
	Packages    int
	LinesOfCode int
	Driver      string
	Database    string
}

// Compute 计算统计数据。一个路由可以同时计入web和api
func Compute(in Input) Stats {
	s := Stats{
		RoutesCount:                  len(in.Routes),
		ControllersCount:             in.Controllers,
		CustomControllersCount:       in.Controllers,
		ModelsCount:                  len(in.Models),
		ModelsWithRelationshipsCount: models.CountWithRelationships(in.Models),
		MigrationsCount:              in.Migrations,
		PackagesCount:                in.Packages,
		LinesOfCode:                  in.LinesOfCode,
		Database: Database{
			Driver:   orDefault(in.Driver, UnknownDriver),
			Database: orDefault(in.Database, UnknownDatabase),
		},
		Language: Language(),
	}

	for _, route := range in.Routes {
		if route.IsWeb() {
			s.WebRoutesCount++
		}
		if route.IsAPI() {
			s.APIRoutesCount++
		}
	}
	return s
}

// Language 返回运行时和框架版本描述
func Language() string {
	return fmt.Sprintf("Go %s (Gin %s)", strings.TrimPrefix(runtime.Version(), "go"), gin.Version)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
