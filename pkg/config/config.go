package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"zetrix-gateway/pkg/validator"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Transfer TransferConfig `mapstructure:"transfer"`
	Invoke   InvokeConfig   `mapstructure:"invoke"`
	Query    QueryConfig    `mapstructure:"query"`
	DB       DBConfig       `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Outbox   OutboxConfig   `mapstructure:"outbox"`
}

type AppConfig struct {
	Env      string `mapstructure:"env" validate:"oneof=development production test"`
	HttpPort string `mapstructure:"http_port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	// AdminTokenHash 写交易与切换节点接口的 bcrypt 哈希，为空时不校验，HTTP 服务也不使用配置私钥
	AdminTokenHash string `mapstructure:"admin_token_hash"`
}

// LedgerConfig Zetrix 节点连接
type LedgerConfig struct {
	URL     string        `mapstructure:"url" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TransferConfig 转账默认值，请求中的非空字段优先
type TransferConfig struct {
	SenderAddress    string `mapstructure:"sender_address" validate:"omitempty,ztx_address"`
	RecipientAddress string `mapstructure:"recipient_address" validate:"omitempty,ztx_address"`
	PrivateKey       string `mapstructure:"private_key"`
	Amount           string `mapstructure:"amount"` // 十进制字面量或 ${payload.xxx} 表达式
}

// InvokeConfig 合约调用默认值
type InvokeConfig struct {
	Address         string `mapstructure:"address" validate:"omitempty,ztx_address"`
	ContractAddress string `mapstructure:"contract_address" validate:"omitempty,ztx_address"`
	Method          string `mapstructure:"method"`
	InputParams     string `mapstructure:"input_params"` // JSON 文本
	PrivateKey      string `mapstructure:"private_key"`
	Amount          string `mapstructure:"amount"`
}

// QueryConfig 合约查询默认值
type QueryConfig struct {
	ContractAddress string `mapstructure:"contract_address" validate:"omitempty,ztx_address"`
	Method          string `mapstructure:"method"`
	InputParams     string `mapstructure:"input_params"`
}

type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"` // 关闭时不记录提交流水
	Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required_if=Enabled true"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type" validate:"oneof=redis kafka asynq"` // "redis", "kafka" or "asynq"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

// WorkerConfig 消息队列驱动的交易 worker
type WorkerConfig struct {
	RequestTopic string        `mapstructure:"request_topic" validate:"required"`
	ResultTopic  string        `mapstructure:"result_topic" validate:"required"`
	Group        string        `mapstructure:"group"`
	Consumer     string        `mapstructure:"consumer"`
	DedupTTL     time.Duration `mapstructure:"dedup_ttl"`                    // 按请求 ID 去重的时长，0 表示不去重
	Concurrency  int           `mapstructure:"concurrency" validate:"min=1"` // 仅 asynq 模式生效
}

// OutboxConfig 已投递消息的定期清理
type OutboxConfig struct {
	PurgeSpec string        `mapstructure:"purge_spec" validate:"required"` // cron 表达式
	Retention time.Duration `mapstructure:"retention"`
}

var Global Config

var watchOnce sync.Once

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// 环境变量设置: LEDGER_URL 覆盖 ledger.url
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	cfg, err := load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	Global = cfg

	log.Printf("Configuration loaded successfully. Env: %s, Ledger: %s", Global.App.Env, Global.Ledger.URL)
}

// load 解码并校验当前 viper 中的配置
func load() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := validator.Struct(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch 配置文件变化时重新加载，校验通过后回调。
// 回调收到新旧两份配置，由调用方决定需要重建的组件 (例如节点地址变化时重连)。
func Watch(onChange func(old, updated Config)) {
	watchOnce.Do(func() {
		viper.OnConfigChange(func(e fsnotify.Event) {
			cfg, err := load()
			if err != nil {
				log.Printf("Warning: ignoring config change from %s: %v", e.Name, err)
				return
			}
			old := Global
			Global = cfg
			if onChange != nil {
				onChange(old, cfg)
			}
		})
		viper.WatchConfig()
	})
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("ledger.url", "test-node.zetrix.com")
	viper.SetDefault("ledger.timeout", 15*time.Second)

	viper.SetDefault("db.enabled", false)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "ztx_user")
	viper.SetDefault("db.password", "ztx_password")
	viper.SetDefault("db.name", "ztx_gateway")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("worker.request_topic", "ztx_tx_requests")
	viper.SetDefault("worker.result_topic", "ztx_tx_results")
	viper.SetDefault("worker.group", "ztx_worker_group")
	viper.SetDefault("worker.consumer", "ztx_worker_1")
	viper.SetDefault("worker.dedup_ttl", 10*time.Minute)
	viper.SetDefault("worker.concurrency", 4)

	viper.SetDefault("outbox.purge_spec", "@every 1h")
	viper.SetDefault("outbox.retention", 7*24*time.Hour)
}

// DSN PostgreSQL 连接串
func (c DBConfig) DSN() string {
	return "host=" + c.Host + " user=" + c.User + " password=" + c.Password +
		" dbname=" + c.Name + " port=" + c.Port + " sslmode=disable"
}
