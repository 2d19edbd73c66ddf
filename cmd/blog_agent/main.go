// Package main provides the entry point for the blog automation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blog_agent",
	Short: "YouTube-to-blog automation pipeline",
	Long:  "blog_agent researches a topic on YouTube, synthesizes a blog post with an LLM, curates stock images, and publishes the result to Dev.to, Hashnode, or a local directory.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
