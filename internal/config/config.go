package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"slgmonitor/internal/model"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Cache  CacheConfig  `toml:"cache"`
	Match  MatchConfig  `toml:"match"`
	Auth   AuthConfig   `toml:"auth"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	// Backend 数据后端: file（JSON 数据目录）或 sqlite（导入库）
	Backend string `toml:"backend"`
	DBPath  string `toml:"db_path"`
	// IndexTimeoutMS 周索引拉取超时（毫秒），唯一带超时的调用；0 为不限制
	IndexTimeoutMS int `toml:"index_timeout_ms"`
}

// CacheConfig 详情缓存配置
type CacheConfig struct {
	// DetailLimit 公司/产品详情各自的缓存条数上限
	DetailLimit int `toml:"detail_limit"`
}

// MatchConfig 身份解析配置
type MatchConfig struct {
	// ResolvePriority 候选表优先级, 默认 old, new, formatted。
	// 该顺序是沿用下来的业务约定, 放配置里而不是写死
	ResolvePriority []string `toml:"resolve_priority"`
}

// AuthConfig 提权会话配置
type AuthConfig struct {
	// AdminKey 提权口令, 为空时运维/审批/高级查询维度不可用
	AdminKey string `toml:"admin_key"`
	// SessionTTLMinutes 提权会话有效期（分钟）
	SessionTTLMinutes int `toml:"session_ttl_minutes"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:        "data",
			Backend:        "file",
			DBPath:         "data/slgmonitor.db",
			IndexTimeoutMS: 5000,
		},
		Cache: CacheConfig{
			DetailLimit: 50,
		},
		Match: MatchConfig{
			ResolvePriority: []string{"old", "new", "formatted"},
		},
		Auth: AuthConfig{
			AdminKey:          "",
			SessionTTLMinutes: 120,
		},
	}
}

// ResolvePriority 配置的候选表优先级转为来源标签列表，非法值剔除
func (c *AppConfig) ResolvePriority() []model.SourceTable {
	var out []model.SourceTable
	for _, v := range c.Match.ResolvePriority {
		switch tag := model.SourceTable(v); tag {
		case model.SourceOld, model.SourceNew, model.SourceFormatted:
			out = append(out, tag)
		}
	}
	return out
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// 环境变量覆盖（用于 E2E / 本地运行）
	if v := os.Getenv("SLGMONITOR_ADMIN_KEY"); v != "" {
		config.Auth.AdminKey = v
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 数据目录位于可执行文件同目录下
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
