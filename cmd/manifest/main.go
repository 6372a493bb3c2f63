// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// manifest answers natural-language questions about the Titanic passenger
// manifest by generating SQL with an LLM and executing it in a read-only
// sandbox.
package main

func main() {
	Execute()
}
