package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	SSH      SSHConfig      `mapstructure:"ssh"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// EngineConfig 解析引擎配置
type EngineConfig struct {
	// DefaultPlatform 请求未指定平台时使用
	DefaultPlatform string `mapstructure:"default_platform"`
	// DefinitionsDir 源码定义仓库根目录，留空则只使用编译注册的例程
	DefinitionsDir string `mapstructure:"definitions_dir"`
	// DefinitionPrefixes 定义文件名前缀（show_/display_/ping）
	DefinitionPrefixes []string `mapstructure:"definition_prefixes"`
	// CommandVerbs 定义文件中命令字面量的动词
	CommandVerbs []string `mapstructure:"command_verbs"`
	// NormalizeEncoding 解析前转码并去除控制序列与分页提示
	NormalizeEncoding bool `mapstructure:"normalize_encoding"`
	// BatchConcurrency 批量解析并发数
	BatchConcurrency int `mapstructure:"batch_concurrency"`
	// DebugOutputLines debug 日志记录的回显首尾行数
	DebugOutputLines int `mapstructure:"debug_output_lines"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

// SQLiteConfig SQLite配置
type SQLiteConfig struct {
	Path            string        `mapstructure:"path"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// HistoryEnabled 是否记录解析历史
	HistoryEnabled bool `mapstructure:"history_enabled"`
}

// StorageConfig 回显与解析结果归档配置
type StorageConfig struct {
	// Backend 存储后端：local | minio
	Backend string             `mapstructure:"backend"`
	Prefix  string             `mapstructure:"prefix"`
	Local   LocalStorageConfig `mapstructure:"local"`
	Minio   MinioConfig        `mapstructure:"minio"`
}

// LocalStorageConfig 本地存储配置
type LocalStorageConfig struct {
	BaseDir        string `mapstructure:"base_dir"`
	MkdirIfMissing bool   `mapstructure:"mkdir_if_missing"`
}

// MinioConfig 对象存储配置
type MinioConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Secure    bool   `mapstructure:"secure"`
}

// SSHConfig SSH配置（在线采集回显）
type SSHConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

var globalConfig *Config

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	// 设置默认值
	setDefaults()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// 默认配置文件路径
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("../configs")
		viper.AddConfigPath("../../configs")
	}

	// 设置环境变量前缀
	viper.SetEnvPrefix("CLI_PARSER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 兼容旧键名：engine.parser_dir -> engine.definitions_dir
	if strings.TrimSpace(config.Engine.DefinitionsDir) == "" && viper.IsSet("engine.parser_dir") {
		config.Engine.DefinitionsDir = strings.TrimSpace(viper.GetString("engine.parser_dir"))
	}

	// 支持拆分的握手超时（dial/auth）；若设置则合并为 ConnectTimeout
	var dialSec, authSec int
	if viper.IsSet("ssh.dial_timeout") {
		dialSec = viper.GetInt("ssh.dial_timeout")
	}
	if viper.IsSet("ssh.auth_timeout") {
		authSec = viper.GetInt("ssh.auth_timeout")
	}
	if dialSec > 0 || authSec > 0 {
		config.SSH.ConnectTimeout = time.Duration(dialSec+authSec) * time.Second
	}

	// 环境变量替换
	config = replaceEnvVars(config)

	if config.Engine.BatchConcurrency <= 0 {
		config.Engine.BatchConcurrency = 1
	}
	config.Engine.DefaultPlatform = strings.ToLower(strings.TrimSpace(config.Engine.DefaultPlatform))

	globalConfig = &config
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 18100)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// 引擎默认：nxos 平台，definitions 目录，命名约定与命令动词
	viper.SetDefault("engine.default_platform", "nxos")
	viper.SetDefault("engine.definitions_dir", "./definitions")
	viper.SetDefault("engine.definition_prefixes", []string{"show_", "display_", "ping"})
	viper.SetDefault("engine.command_verbs", []string{"show", "display", "ping"})
	viper.SetDefault("engine.normalize_encoding", true)
	viper.SetDefault("engine.batch_concurrency", 8)
	viper.SetDefault("engine.debug_output_lines", 5)

	viper.SetDefault("database.sqlite.path", "./data/cliparser.db")
	viper.SetDefault("database.sqlite.max_idle_conns", 5)
	viper.SetDefault("database.sqlite.max_open_conns", 10)
	viper.SetDefault("database.sqlite.conn_max_lifetime", time.Hour)
	viper.SetDefault("database.sqlite.history_enabled", true)

	// 归档默认写本地
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.prefix", "parse-results")
	viper.SetDefault("storage.local.base_dir", "./data/archive")
	viper.SetDefault("storage.local.mkdir_if_missing", true)

	viper.SetDefault("ssh.connect_timeout", 7*time.Second)
	viper.SetDefault("ssh.command_timeout", 30*time.Second)

	// 日志默认级别为 info（可通过 log.level 覆盖为 debug/warn/error 等）
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "console")
}

// Get 获取全局配置
func Get() *Config {
	return globalConfig
}

// replaceEnvVars 替换配置中的 ${ENV} 形式取值
func replaceEnvVars(config Config) Config {
	config.Storage.Minio.AccessKey = expandEnv(config.Storage.Minio.AccessKey)
	config.Storage.Minio.SecretKey = expandEnv(config.Storage.Minio.SecretKey)
	config.Engine.DefinitionsDir = expandEnv(config.Engine.DefinitionsDir)
	return config
}

func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		envVar := strings.TrimSuffix(strings.TrimPrefix(s, "${"), "}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
	}
	return s
}

// GetServerAddr 获取服务器地址
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
