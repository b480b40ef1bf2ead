package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Logging       LoggingConfig       `yaml:"logging"`
	MetadataCache MetadataCacheConfig `yaml:"metadata_cache"`
	TestData      TestDataConfig      `yaml:"test_data"`
}

type ServerConfig struct {
	APIPort int    `yaml:"api_port"`
	Mode    string `yaml:"mode"` // debug / release / test
	// AllowedOrigins CORS 允许的来源，为空表示允许所有来源
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SetDefaults 设置默认值
func (c *ServerConfig) SetDefaults() {
	if c.APIPort == 0 {
		c.APIPort = 3001
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // 数据库驱动: postgres, mysql (默认: postgres)
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	SSLMode         string `yaml:"sslmode"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
	// SeedBuiltins 启动时补齐内置字段定义和默认布局（只插入缺失项）
	SeedBuiltins *bool `yaml:"seed_builtins"`
}

type RedisConfig struct {
	// Enabled 是否启用Redis
	// - true: 启用元数据缓存和测试数据生成的分布式锁
	// - false: 直接读数据库，生成任务使用进程内锁
	Enabled bool `yaml:"enabled"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`

	// ConnectTimeout 连接超时时间（秒，默认5秒）
	ConnectTimeout int `yaml:"connect_timeout"`
	// ReadTimeout 读取超时时间（秒，默认3秒）
	ReadTimeout int `yaml:"read_timeout"`
	// WriteTimeout 写入超时时间（秒，默认3秒）
	WriteTimeout int `yaml:"write_timeout"`

	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
}

// Validate 验证Redis配置
func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Host == "" {
		return fmt.Errorf("redis host is required when enabled=true")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid redis port: %d", c.Port)
	}

	return nil
}

// SetDefaults 设置默认值
func (c *RedisConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 5
	}
}

type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug / info / warn / error
	Output     string `yaml:"output"`      // console / file / both
	File       string `yaml:"file"`        // 日志文件路径
	MaxSize    int    `yaml:"max_size"`    // 单个文件最大大小（MB）
	MaxBackups int    `yaml:"max_backups"` // 保留的旧日志文件数量
	MaxAge     int    `yaml:"max_age"`     // 保留日志的最大天数
	Compress   bool   `yaml:"compress"`    // 是否压缩旧日志
}

// SetDefaults 设置日志默认值
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Output == "" {
		c.Output = "console"
	}
	if c.File == "" {
		c.File = "logs/crm.log"
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 7
	}
	if c.MaxAge == 0 {
		c.MaxAge = 30
	}
}

// MetadataCacheConfig 字段定义/页面布局缓存（仅在Redis启用时生效）
type MetadataCacheConfig struct {
	TTL int `yaml:"ttl"` // 秒，默认300
}

// SetDefaults 设置缓存默认值
func (c *MetadataCacheConfig) SetDefaults() {
	if c.TTL <= 0 {
		c.TTL = 300
	}
}

type TestDataConfig struct {
	// Password 生成/清空测试数据的口令，与 PasswordHash 都为空时禁用该功能
	Password string `yaml:"password"`
	// PasswordHash bcrypt 哈希，优先于明文口令
	PasswordHash string `yaml:"password_hash"`
	BatchSize    int    `yaml:"batch_size"`
	// ReservoirSize 外键采样池容量
	ReservoirSize int `yaml:"reservoir_size"`
	// LockTTL 分布式锁过期时间（秒）
	LockTTL int `yaml:"lock_ttl"`
}

// SetDefaults 设置测试数据默认值
func (c *TestDataConfig) SetDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 1000
	}
	if c.ReservoirSize <= 0 {
		c.ReservoirSize = 50000
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 60
	}
}

// Enabled 是否配置了口令
func (c *TestDataConfig) Enabled() bool {
	return c.Password != "" || c.PasswordHash != ""
}

var GlobalConfig *Config

// Load 读取配置文件，并应用 .env 与环境变量覆盖
func Load(configPath string) (*Config, error) {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var config Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// 容器部署时可以只用环境变量
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnv()
	config.SetDefaults()

	if err := config.Redis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	GlobalConfig = &config
	return &config, nil
}

// SetDefaults 设置所有配置段的默认值
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Database.SetDefaults()
	c.Redis.SetDefaults()
	c.Logging.SetDefaults()
	c.MetadataCache.SetDefaults()
	c.TestData.SetDefaults()
}

// applyEnv 支持通过环境变量覆盖配置（Docker 部署时使用）
func (c *Config) applyEnv() {
	if port := envInt("API_PORT"); port != nil {
		c.Server.APIPort = *port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		c.Server.Mode = mode
	}

	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		c.Database.Driver = dbDriver
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		c.Database.Host = dbHost
	}
	if dbPort := envInt("DB_PORT"); dbPort != nil {
		c.Database.Port = *dbPort
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		c.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		c.Database.DBName = dbName
	}
	if sslMode := os.Getenv("DB_SSLMODE"); sslMode != "" {
		c.Database.SSLMode = sslMode
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		if enabled, err := strconv.ParseBool(redisEnabled); err == nil {
			c.Redis.Enabled = enabled
		}
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		c.Redis.Host = redisHost
	}
	if redisPort := envInt("REDIS_PORT"); redisPort != nil {
		c.Redis.Port = *redisPort
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}
	if redisDB := envInt("REDIS_DB"); redisDB != nil {
		c.Redis.DB = *redisDB
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if password := os.Getenv("TEST_DATA_PASSWORD"); password != "" {
		c.TestData.Password = password
	}
}

func envInt(key string) *int {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// SetDefaults 设置默认值
func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" || c.Driver == "postgresql" {
		c.Driver = "postgres"
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		if c.Driver == "mysql" {
			c.Port = 3306
		} else {
			c.Port = 5432
		}
	}
	if c.DBName == "" {
		c.DBName = "crm"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 3600 // 1 hour
	}
	if c.SeedBuiltins == nil {
		seed := true
		c.SeedBuiltins = &seed
	}
}
