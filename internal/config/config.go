package config

import (
	"github.com/spf13/viper"
)

// Configuration comes from environment variables set on the pod/task at
// startup. The struct is built once in main and handed to constructors;
// nothing reads the environment after that.

type Config struct {
	ServerPort        string `mapstructure:"SERVER_PORT"`
	AWSRegion         string `mapstructure:"AWS_REGION"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	EmployeesTable    string `mapstructure:"EMPLOYEES_TABLE"`
	LocationsTable    string `mapstructure:"LOCATIONS_TABLE"`
	AttendanceTable   string `mapstructure:"ATTENDANCE_TABLE"`
	NotifySQSQueueURL string `mapstructure:"NOTIFY_SQS_QUEUE_URL"`
	EmailSender       string `mapstructure:"EMAIL_SENDER"`
	OTLPEndpoint      string `mapstructure:"OTLP_ENDPOINT"`
	IsLocalDev        bool   `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables, falling back
// to local development defaults.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("EMPLOYEES_TABLE", "employees")
	viper.SetDefault("LOCATIONS_TABLE", "locations")
	viper.SetDefault("ATTENDANCE_TABLE", "attendance")
	viper.SetDefault("NOTIFY_SQS_QUEUE_URL", "http://localstack:4566/000000000000/notify-queue")
	viper.SetDefault("EMAIL_SENDER", "no-reply@fieldtrack.example.com")
	viper.SetDefault("OTLP_ENDPOINT", "jaeger:4317")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
