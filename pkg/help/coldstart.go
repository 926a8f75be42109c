package help

const ColdstartYAML = `# feedscope Quick Start

regions:
  domestic: "Mainland-China locale detected: Bilibili + Weibo, Baidu search, Chinese output"
  international: "Everything else (fail-open default): Reddit + Twitter, Google search, English output"

commands:
  trending: |
    feedscope trending

  trending_more: |
    feedscope trending --limit 20

  personal: |
    # needs <platform>_cookies.json, see cookies below
    feedscope personal

  video_feed: |
    feedscope video

  news_feed: |
    feedscope news

  window_context: |
    feedscope context
    feedscope context --title "rust borrow checker - Stack Overflow"

  run_dashboard: |
    feedscope dashboard --port 8080

cookies:
  - "Looked up per platform: bilibili_cookies.json, weibo_cookies.json, reddit_cookies.json, twitter_cookies.json"
  - "Search order: home directory, ./config, current directory, then config extra_paths"
  - "Accepted shapes: [{name, value}, ...] or a flat {name: value} map"
  - "No cookie file = trending still works, personal feeds report missing credentials"

environment:
  FEEDSCOPE_REGION: "domestic or international; overrides locale detection"
  OPENAI_API_KEY: "enables diverse query generation for the context command"
  REDDIT_CLIENT_ID: "with REDDIT_CLIENT_SECRET, switches reddit trending to the authenticated API"

history:
  - "Every run is recorded in feedscope.db (SQLite)"
  - "The dashboard command charts per-platform success and item counts from it"

error_behavior:
  - "One platform failing never hides the other's results"
  - "Missing credentials fail fast with no network traffic"
  - "Exit codes: 0=output produced, 2=could not initialize"
`
