package main

import (
	"context"

	"github.com/DenisKhanov/LightsBot/internal/app/tbot"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx := context.Background()

	// Lambda has no dotenv file, configuration comes from the function environment.
	app, err := tbot.NewApp(ctx, "")
	if err != nil {
		logrus.Fatalf("failed to init app: %v", err)
	}
	handler, err := app.LambdaHandler(ctx)
	if err != nil {
		logrus.Fatalf("failed to init lambda handler: %v", err)
	}

	lambda.Start(handler.Handle)
}
