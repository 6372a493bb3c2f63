// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"os/signal"
	"syscall"

	"github.com/helmsley-labs/manifest/internal/log"
	"github.com/helmsley-labs/manifest/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP with SSE token streaming",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, table, err := buildAssistant(config)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(a, table.Overview(), config.Server.Addr)
		log.Info("serving manifest assistant",
			zap.String("addr", config.Server.Addr),
			zap.String("dataset", config.Dataset.Path))
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}
