package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	MongoURI      string
	DatabaseName  string
	Port          string
	JWTSecret     string
	KeepAliveURL  string
	AWSRegion     string
	AWSBucketName string
	AdminEmail    string
	SenderEmail   string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGODB_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	DatabaseName = os.Getenv("DATABASE_NAME")
	if DatabaseName == "" {
		DatabaseName = "ecommerce"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8000"
	}

	JWTSecret = os.Getenv("SECRET_KEY")

	// URL pinged every 5 minutes to keep the hosting instance warm
	KeepAliveURL = os.Getenv("BACKEND_API")

	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "ap-south-1"
	}

	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	AdminEmail = os.Getenv("ADMIN_EMAIL")

	SenderEmail = os.Getenv("SENDER_EMAIL")
	if SenderEmail == "" {
		SenderEmail = "no-reply@avanimitra.com"
	}
}
