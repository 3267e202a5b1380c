package config

import "os"

type Config struct {
	Port               string
	PetNannyDBHost     string
	PetNannyDBPort     string
	VerificationDBHost string
	VerificationDBPort string
	ImageCacheHost     string
	ImageCachePort     string
	HDFSUri            string
	GeocoderURL        string
	JaegerAddress      string
}

func NewConfig() *Config {
	return &Config{
		Port:               os.Getenv("PETNANNY_SERVICE_PORT"),
		PetNannyDBHost:     os.Getenv("PETNANNY_DB_HOST"),
		PetNannyDBPort:     os.Getenv("PETNANNY_DB_PORT"),
		VerificationDBHost: os.Getenv("VERIFICATION_CACHE_HOST"),
		VerificationDBPort: os.Getenv("VERIFICATION_CACHE_PORT"),
		ImageCacheHost:     os.Getenv("IMAGE_CACHE_HOST"),
		ImageCachePort:     os.Getenv("IMAGE_CACHE_PORT"),
		HDFSUri:            os.Getenv("HDFS_URI"),
		GeocoderURL:        os.Getenv("GEOCODER_URL"),
		JaegerAddress:      os.Getenv("JAEGER_ADDRESS"),
	}
}
