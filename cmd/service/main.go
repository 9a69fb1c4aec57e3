package main

import (
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.vocdoni.io/dvote/log"

	"github.com/apiforge/stripe-adapter/api"
	"github.com/apiforge/stripe-adapter/db"
	"github.com/apiforge/stripe-adapter/engine"
	"github.com/apiforge/stripe-adapter/stripe"
)

func main() {
	log.Init("debug", "stdout", nil)
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API secret")
	flag.String("mongo-url", "", "The URL of the MongoDB server")
	flag.String("mongo-db", "stripe-adapter", "The name of the MongoDB database")
	flag.String("stripe-api-key", "", "Stripe secret API key")
	flag.String("stripe-client-id", "", "Stripe Connect client id")
	flag.String("stripe-webhook-secret", "", "Stripe webhook signing secret")
	flag.String("currency", "eur", "currency used to price inline products")
	flag.String("domain", "", "tenant domain tagged on checkout sessions")
	flag.StringP("webapp-url", "w", "http://localhost:3000", "web application URL")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("ADAPTER")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal("secret is required")
	}
	mongoURL := viper.GetString("mongo-url")
	mongoDB := viper.GetString("mongo-db")
	// initialize the MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatalf("could not create the MongoDB database: %v", err)
	}
	defer database.Close()
	// create the payment provider from its stored connection parameters
	conn := stripe.Connect(engine.MapParameters{
		"api_key":   viper.GetString("stripe-api-key"),
		"client_id": viper.GetString("stripe-client-id"),
	})
	provider := stripe.New(conn, engine.MapParameters{
		"webhook_secret": viper.GetString("stripe-webhook-secret"),
		"domain":         viper.GetString("domain"),
	})
	// create the local API server
	api.New(&api.Config{
		Host:           host,
		Port:           port,
		Secret:         secret,
		Currency:       viper.GetString("currency"),
		WebAppURL:      viper.GetString("webapp-url"),
		Domain:         viper.GetString("domain"),
		DB:             database,
		Provider:       provider,
		WebhookHandler: db.NewBillingHandler(database),
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Infow("server started", "host", host, "port", port)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
