// Package headless runs a batch of web navigation tasks without a terminal
// UI, for cron jobs and CI pipelines.
//
// A batch file lists the requests to run and optional checks on each
// result:
//
//	output_dir: outputs/nightly
//	continue_on_failure: true
//	task_timeout: 2m
//	tasks:
//	  - name: laptops
//	    request: find laptops under 50k and save as csv
//	    expect:
//	      format: csv
//	      file: true
//	  - name: news
//	    request: search for latest AI news
//	    expect:
//	      contains: ["AI"]
//
// Tasks run sequentially, each with its own browser session. After the last
// task the executor writes batch-summary.json and, when enabled,
// batch-summary.md into the output directory.
//
// Example usage:
//
//	config, err := headless.LoadConfig("tasks.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	executor := headless.NewExecutor(orch, config)
//	summary, err := executor.Run(ctx)
//
// Checks:
//
// A task passes when its result is successful and every expectation holds:
// - format: the summary format must match
// - file: an export must (or must not) have been written
// - contains: each string must appear in the summary text
// - min_actions: at least this many actions must have run
//
// A failed required check marks the task failed. Unless continue_on_failure
// is set the batch stops at the first failed task.
package headless
