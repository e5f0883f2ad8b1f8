/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/globalsign/mgo"
	"github.com/intel/rsp-sw-toolkit-im-suite-utilities/go-metrics"
	reporter "github.com/intel/rsp-sw-toolkit-im-suite-utilities/go-metrics-influxdb"
	log "github.com/sirupsen/logrus"

	"github.com/scanwedge/stockscan-service/app/config"
	"github.com/scanwedge/stockscan-service/app/erpstock"
	"github.com/scanwedge/stockscan-service/app/mapping"
	"github.com/scanwedge/stockscan-service/app/routes"
	"github.com/scanwedge/stockscan-service/app/scan"
	"github.com/scanwedge/stockscan-service/pkg/db"
	"github.com/scanwedge/stockscan-service/pkg/healthcheck"
)

func main() {

	mConfigurationError := metrics.GetOrRegisterGauge("StockScan.Main.ConfigurationError", nil)
	mDatabaseRegisterError := metrics.GetOrRegisterGauge("StockScan.Main.DatabaseRegisterError", nil)
	mDBIndexesError := metrics.GetOrRegisterGauge("StockScan.Main.DBIndexesError", nil)
	mStateLoadError := metrics.GetOrRegisterGauge("StockScan.Main.StateLoadError", nil)

	// Ensure simple text format
	log.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	// Load config variables
	err := config.InitConfig()
	fatalErrorHandler("unable to load configuration variables", err, &mConfigurationError)

	isHealthyPtr := flag.Bool("isHealthy", false, "a bool, runs a healthcheck")
	flag.Parse()
	if *isHealthyPtr {
		os.Exit(healthcheck.Healthcheck(config.AppConfig.Port))
	}

	// Initialize metrics reporting
	initMetrics()

	setLoggingLevel(config.AppConfig.LoggingLevel)

	log.WithFields(log.Fields{
		"Method": "main",
		"Action": "Start",
	}).Info("Starting stockscan service...")

	dbName := config.AppConfig.DatabaseName
	dbHost := config.AppConfig.ConnectionString + "/" + dbName

	// Connect to mongodb
	log.WithFields(log.Fields{
		"Method": "main",
		"Action": "Start",
		"Host":   config.AppConfig.DatabaseName,
	}).Info("Registering a new master db...")

	masterDB, err := db.NewSession(dbHost, 5*time.Second)
	fatalErrorHandler("Unable to register a new master db.", err, &mDatabaseRegisterError)

	// Close master db
	defer masterDB.Close()

	// Prepares database indexes
	prepDBErr := prepareDB(masterDB)
	errorHandler("error creating indexes", prepDBErr, &mDBIndexesError)

	processor := scan.NewProcessor(sessionFromConfig())
	mappings := mapping.NewStore()

	loadErr := loadPersistedState(masterDB, processor, mappings)
	errorHandler("error restoring persisted state", loadErr, &mStateLoadError)

	// Initiate webserver and routes
	startWebServer(masterDB, config.AppConfig.Port, config.AppConfig.ResponseLimit,
		config.AppConfig.ServiceName, processor, mappings)

	log.WithField("Method", "main").Info("Completed.")
}

// sessionFromConfig snapshots the per-session scanning configuration.
func sessionFromConfig() scan.Session {
	return scan.Session{
		Location:              config.NormalizeLocation(config.AppConfig.Location),
		StorageSite:           config.AppConfig.StorageSite,
		MovementCode:          config.AppConfig.MovementCode,
		QuarantineLocation:    config.AppConfig.QuarantineLocation,
		ExpiryThresholdMonths: config.AppConfig.ExpiryThresholdMonths,
		RequireRefMode:        config.AppConfig.RequireRefMode,
		StockCountMode:        config.AppConfig.StockCountMode,
	}
}

// loadPersistedState restores the ledger, the gtin mappings and the reference
// gate from mongodb so a service restart does not lose a counting session.
func loadPersistedState(masterDB *db.DB, processor *scan.Processor, mappings *mapping.Store) error {

	copySession := masterDB.CopySession()
	defer copySession.Close()

	if err := mappings.Load(copySession); err != nil {
		return err
	}

	rows, err := erpstock.Retrieve(copySession)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		processor.SetReferenceSet(erpstock.ReferenceSet(rows))
	}

	records, err := scan.Retrieve(copySession)
	if err != nil {
		return err
	}
	processor.Load(records)

	log.WithFields(log.Fields{
		"Method":       "loadPersistedState",
		"Records":      len(records),
		"SnapshotRows": len(rows),
		"Mappings":     len(mappings.All()),
	}).Info("Persisted state restored")

	return nil
}

func startWebServer(masterDB *db.DB, port string, responseLimit int, serviceName string,
	processor *scan.Processor, mappings *mapping.Store) {

	// Start Webserver and pass additional data
	router := routes.NewRouter(masterDB, responseLimit, processor, mappings)

	// Create a new server and set timeout values.
	server := http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    time.Duration(config.AppConfig.ServerReadTimeOutSeconds) * time.Second,
		WriteTimeout:   time.Duration(config.AppConfig.ServerWriteTimeOutSeconds) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// We want to report the listener is closed.
	var wg sync.WaitGroup
	wg.Add(1)

	// Start the listener.
	go func() {
		log.Infof("%s running!", serviceName)
		log.Infof("Listener closed : %v", server.ListenAndServe())
		wg.Done()
	}()

	// Listen for an interrupt signal from the OS.
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt)

	// Wait for a signal to shutdown.
	<-osSignals

	// Create a context to attempt a graceful 5 second shutdown.
	const timeout = 5 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Attempt the graceful shutdown by closing the listener and
	// completing all inflight requests.
	if err := server.Shutdown(ctx); err != nil {

		log.WithFields(log.Fields{
			"Method":  "main",
			"Action":  "shutdown",
			"Timeout": timeout,
			"Message": err.Error(),
		}).Error("Graceful shutdown did not complete")

		// Looks like we timedout on the graceful shutdown. Kill it hard.
		if err := server.Close(); err != nil {
			log.WithFields(log.Fields{
				"Method":  "main",
				"Action":  "shutdown",
				"Message": err.Error(),
			}).Error("Error killing server")
		}
	}

	// Wait for the listener to report it is closed.
	wg.Wait()
}

func prepareDB(dbs *db.DB) error {

	copySession := dbs.CopySession()
	defer copySession.Close()

	purgingDays := config.AppConfig.PurgingDays
	// Convert days into seconds
	purgingSeconds := purgingDays * 24 * 60 * 60

	indexes := make(map[string][]mgo.Index)

	// stale ledger records purge themselves through the timestamp TTL
	indexes["scans"] = []mgo.Index{
		{
			Key:        []string{"id"},
			Unique:     true,
			DropDups:   false,
			Background: false,
		},
		{
			Key:         []string{"timestamp"},
			Unique:      false,
			DropDups:    false,
			Background:  false,
			ExpireAfter: time.Duration(purgingSeconds) * time.Second,
		},
		{
			Key:        []string{"ref"},
			Unique:     false,
			DropDups:   false,
			Background: false,
		},
	}

	indexes["erpstock"] = []mgo.Index{
		{
			Key:        []string{"ref"},
			Unique:     false,
			DropDups:   false,
			Background: false,
		},
	}

	indexes["mappings"] = []mgo.Index{
		{
			Key:        []string{"gtin"},
			Unique:     true,
			DropDups:   false,
			Background: false,
		},
	}

	for collectionName, indexList := range indexes {
		execFunc := func(collection *mgo.Collection) error {
			for _, index := range indexList {
				if err := collection.EnsureIndex(index); err != nil {
					return err
				}
			}
			return nil
		}
		if err := copySession.Execute(collectionName, execFunc); err != nil {
			return err
		}
		log.Infof("Set indexes for %s collection", collectionName)
	}

	return nil
}

func initMetrics() {
	// setup metrics reporting
	if config.AppConfig.TelemetryEndpoint != "" {
		go reporter.InfluxDBWithTags(
			metrics.DefaultRegistry,
			time.Second*10, //cfg.ReportingInterval,
			config.AppConfig.TelemetryEndpoint,
			config.AppConfig.TelemetryDataStoreName,
			"",
			"",
			nil,
		)
	}
}
