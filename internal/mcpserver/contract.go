package mcpserver

// ContentFormatContract describes the document format that LLM consumers
// should expect when reading raw pages.
const ContentFormatContract = `# Folio Content Format

Pages live under ` + "`" + `<version>/<locale>/<path>.md` + "`" + ` (or ` + "`" + `.mdx` + "`" + `). A file named
` + "`" + `index.md` + "`" + ` takes its directory's slug.

## Frontmatter

` + "```" + `yaml
---
title: Getting Started        # REQUIRED – page and sidebar title
description: First steps      # OPTIONAL – shown under the title and in search
order: 1                      # OPTIONAL – sidebar position; unordered pages sort last
sidebar: Start                # OPTIONAL – shorter sidebar label
tags: [setup, basics]         # OPTIONAL – YAML list
toc: false                    # OPTIONAL – hide the table of contents (default true)
draft: true                   # OPTIONAL – excluded from every listing and from search
slug: [start]                 # OPTIONAL – overrides the path-derived slug
---
` + "```" + `

Pages whose frontmatter does not parse are skipped.

## Components

The body is Markdown with embedded component tags. Tags inside fenced code
blocks are never interpreted.

| Tag | Attributes |
|-----|------------|
| ` + "`" + `<Callout type="info\|warning\|success\|error" emoji="…">text</Callout>` + "`" + ` | type defaults to info |
| ` + "`" + `<FAQAccordion faqs={[{question, answer}]} />` + "`" + ` | array literal |
| ` + "`" + `<StepByStep steps={[{title, description}]} />` + "`" + ` | array literal |
| ` + "`" + `<PremiumCalculator />` + "`" + ` | defaultCoverage, defaultRate, defaultDuration |
| ` + "`" + `<RiskPointsCalculator />` + "`" + ` | defaultDeposit, maxBudget |
| ` + "`" + `<CodeSandboxEmbed url="…" />` + "`" + ` | title, height |
| ` + "`" + `<ResponsiveIframe src="…" title="…" />` + "`" + ` | className, initialHeight |
| ` + "`" + `<ThemedImage lightSrc="…" darkSrc="…" alt="…" />` + "`" + ` | className |
| ` + "`" + `<ExternalLinks sections={NAME} />` + "`" + ` | NAME is an ` + "`" + `export const NAME = [...]` + "`" + ` in the same page |
| ` + "`" + `<ContractAddresses />` + "`" + `, ` + "`" + `<PoolParameters />` + "`" + ` | none |
| ` + "`" + `<div className="…">…</div>` + "`" + ` at line start | passed through as HTML |

A component that fails to parse stays in the page as text; ` + "`" + `get_page_markdown` + "`" + `
flattens every recognised component to plain Markdown.

## Links

Internal links are written with the version prefix (` + "`" + `/v2/guides/setup` + "`" + `) and have
that prefix stripped on display, so they resolve within the version being read.
`
