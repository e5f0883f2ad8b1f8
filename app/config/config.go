/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package config

import (
	"strings"

	"github.com/intel/rsp-sw-toolkit-im-suite-utilities/configuration"
	"github.com/intel/rsp-sw-toolkit-im-suite-utilities/helper"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	maxServerReadTimeoutSeconds  = 1800
	maxServerWriteTimeoutSeconds = 1800

	defaultQuarantineLocation    = "MMPER"
	defaultExpiryThresholdMonths = 6
)

type (
	variables struct {
		ServiceName, LoggingLevel, Port           string
		ConnectionString, DatabaseName            string
		TelemetryEndpoint, TelemetryDataStoreName string

		// Scanning session defaults, overridable per session through the API
		StorageSite           string
		Location              string
		QuarantineLocation    string
		ExpiryThresholdMonths int
		RequireRefMode        bool
		StockCountMode        bool
		MovementCode          string

		NotificationURL      string
		NotificationEndpoint string

		EndpointConnectionTimedOutSeconds int

		ServerReadTimeOutSeconds  int
		ServerWriteTimeOutSeconds int
		ResponseLimit             int
		PurgingDays               int

		EnableCORS bool
		CORSOrigin string
	}
)

// AppConfig exports all config variables
var AppConfig variables

// InitConfig loads application variables
// nolint :gocyclo
func InitConfig() error {
	AppConfig = variables{}

	config, err := configuration.NewConfiguration()
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}

	AppConfig.ServiceName, err = config.GetString("serviceName")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}

	AppConfig.ConnectionString, err = helper.GetSecret("connectionString")
	if err != nil {
		AppConfig.ConnectionString, err = config.GetString("connectionString")
		if err != nil {
			return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
		}
	}

	AppConfig.DatabaseName, err = config.GetString("databaseName")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}

	AppConfig.Port, err = config.GetString("port")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}

	// Set "debug" for development purposes. Nil or "" for Production.
	AppConfig.LoggingLevel, err = config.GetString("loggingLevel")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}

	AppConfig.StorageSite, err = config.GetString("storageSite")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}

	location, err := config.GetString("location")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}
	AppConfig.Location = NormalizeLocation(location)
	if AppConfig.Location == "" {
		return errors.New("location cannot be empty")
	}

	AppConfig.QuarantineLocation = NormalizeLocation(
		getOrDefaultString(config, "quarantineLocation", defaultQuarantineLocation))
	if AppConfig.QuarantineLocation == "" {
		return errors.New("quarantineLocation cannot be empty")
	}

	AppConfig.ExpiryThresholdMonths = getOrDefaultInt(config, "expiryThresholdMonths", defaultExpiryThresholdMonths)
	if AppConfig.ExpiryThresholdMonths < 0 {
		return errors.Errorf("expiryThresholdMonths should not be negative! expiryThresholdMonths: %d",
			AppConfig.ExpiryThresholdMonths)
	}

	AppConfig.RequireRefMode = getOrDefaultBool(config, "requireRefMode", false)
	AppConfig.StockCountMode = getOrDefaultBool(config, "stockCountMode", true)
	AppConfig.MovementCode = getOrDefaultString(config, "movementCode", "")

	AppConfig.NotificationURL = getOrDefaultString(config, "notificationURL", "")
	AppConfig.NotificationEndpoint = getOrDefaultString(config, "notificationEndpoint", "/notification")
	AppConfig.EndpointConnectionTimedOutSeconds = getOrDefaultInt(config, "endpointConnectionTimedOutSeconds", 5)

	AppConfig.ServerReadTimeOutSeconds, err = config.GetInt("serverReadTimeOutSeconds")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}
	if AppConfig.ServerReadTimeOutSeconds < 1 {
		return errors.New("ServerReadTimeOutSeconds cannot be lesser than 1")
	}
	if AppConfig.ServerReadTimeOutSeconds > maxServerReadTimeoutSeconds {
		// limit to max value
		log.Debugf("serverReadTimeOutSeconds value %d exceeds the max value allowed, set to max value %d",
			AppConfig.ServerReadTimeOutSeconds, maxServerReadTimeoutSeconds)
		AppConfig.ServerReadTimeOutSeconds = maxServerReadTimeoutSeconds
	}

	AppConfig.ServerWriteTimeOutSeconds, err = config.GetInt("serverWriteTimeOutSeconds")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}
	if AppConfig.ServerWriteTimeOutSeconds < 1 {
		return errors.New("ServerWriteTimeOutSeconds cannot be lesser than 1")
	}
	if AppConfig.ServerWriteTimeOutSeconds > maxServerWriteTimeoutSeconds {
		// limit to max value
		log.Debugf("serverWriteTimeOutSeconds value %d exceeds the max value allowed, set to max value %d",
			AppConfig.ServerWriteTimeOutSeconds, maxServerWriteTimeoutSeconds)
		AppConfig.ServerWriteTimeOutSeconds = maxServerWriteTimeoutSeconds
	}

	// size limit of RESTFul endpoints
	AppConfig.ResponseLimit, err = config.GetInt("responseLimit")
	if err != nil {
		return errors.Wrapf(err, "Unable to load config variables: %s", err.Error())
	}

	AppConfig.PurgingDays = getOrDefaultInt(config, "purgingDays", 90)
	if AppConfig.PurgingDays < 1 {
		return errors.Errorf("PurgingDays should be greater than 0! PurgingDays: %d", AppConfig.PurgingDays)
	}

	AppConfig.TelemetryEndpoint = getOrDefaultString(config, "telemetryEndpoint", "")
	AppConfig.TelemetryDataStoreName = getOrDefaultString(config, "telemetryDataStoreName", "")

	AppConfig.EnableCORS = getOrDefaultBool(config, "enableCORS", true)
	AppConfig.CORSOrigin = getOrDefaultString(config, "corsOrigin", "*")

	return nil
}

// NormalizeLocation canonicalizes a configured location name. Location codes
// are compared verbatim by the reconciliation engine, so they are trimmed and
// upper-cased once here instead of on every match.
func NormalizeLocation(location string) string {
	return strings.ToUpper(strings.TrimSpace(location))
}

func getOrDefaultBool(config *configuration.Configuration, path string, defaultValue bool) bool {
	value, err := config.GetBool(path)
	if err != nil {
		log.Debugf("%s was missing from configuration, setting to default value of %v", path, defaultValue)
		return defaultValue
	}
	return value
}

func getOrDefaultString(config *configuration.Configuration, path string, defaultValue string) string {
	value, err := config.GetString(path)
	if err != nil {
		log.Debugf("%s was missing from configuration, setting to default value of %s", path, defaultValue)
		return defaultValue
	}
	return value
}

func getOrDefaultInt(config *configuration.Configuration, path string, defaultValue int) int {
	value, err := config.GetInt(path)
	if err != nil {
		log.Debugf("%s was missing from configuration, setting to default value of %d", path, defaultValue)
		return defaultValue
	}
	return value
}
