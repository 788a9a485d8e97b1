package autodoc

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/zzliekkas/autodoc/config"
	"github.com/zzliekkas/autodoc/models"
	"github.com/zzliekkas/autodoc/policy"
	"github.com/zzliekkas/autodoc/routes"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// Sources 生成文档时读取的协作者。缺失的协作者对应的读取器返回空结果
type Sources struct {
	// Routes 路由表
	Routes routes.Table
	// Controllers 可加载的控制器
	Controllers *routes.Controllers
	// Models 可加载的模型
	Models *models.Registry
	// DB 数据库连接
	DB *gorm.DB
	// Config 应用配置
	Config *config.Config
	// Policies 持有policies映射的授权服务，通常是*policy.Gate
	Policies interface{}
	// FS 读取项目源文件的文件系统，默认为操作系统文件系统
	FS afero.Fs
	// Root 项目根目录
	Root string
}

// containerSources 容器中可选的协作者
type containerSources struct {
	dig.In

	Table       routes.Table        `optional:"true"`
	Recorder    *routes.Recorder    `optional:"true"`
	Controllers *routes.Controllers `optional:"true"`
	Models      *models.Registry    `optional:"true"`
	DB          *gorm.DB            `optional:"true"`
	Config      *config.Config      `optional:"true"`
	Gate        *policy.Gate        `optional:"true"`
	FS          afero.Fs            `optional:"true"`
}

// SourcesFromContainer 从依赖注入容器中解析协作者，容器中没有的项保持为空
func SourcesFromContainer(container *dig.Container, root string) (Sources, error) {
	src := Sources{Root: root}
	if container == nil {
		return src.withDefaults(), nil
	}

	err := container.Invoke(func(in containerSources) {
		src.Routes = in.Table
		if src.Routes == nil && in.Recorder != nil {
			src.Routes = in.Recorder
		}
		src.Controllers = in.Controllers
		src.Models = in.Models
		src.DB = in.DB
		src.Config = in.Config
		if in.Gate != nil {
			src.Policies = in.Gate
		}
		src.FS = in.FS
	})
	if err != nil {
		return src, fmt.Errorf("从容器解析协作者失败: %w", err)
	}
	return src.withDefaults(), nil
}

// withDefaults 填充文件系统和根目录
func (s Sources) withDefaults() Sources {
	if s.FS == nil {
		s.FS = afero.NewOsFs()
	}
	if s.Root == "" {
		s.Root = "."
	}
	return s
}
