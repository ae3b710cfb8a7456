package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/sondreb/foodie/internal/logging"
)

// RequestLogger logs one line per request through logrus.
func RequestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := logging.WithRequest(logger, v.Method, v.URI, v.Status, float64(v.Latency.Microseconds())/1000).
				WithFields(logrus.Fields{
					"request_id": v.RequestID,
					"remote_ip":  v.RemoteIP,
				})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}

			switch {
			case v.Status >= 500:
				entry.Error("Request failed")
			case v.Status >= 400:
				entry.Warn("Request rejected")
			default:
				entry.Info("Request handled")
			}
			return nil
		},
	})
}
