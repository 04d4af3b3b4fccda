package handlers

import (
	"html/template"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// PageData feeds the dashboard template.
type PageData struct {
	Collection    string
	PollInterval  string
	AuthEnabled   bool
	HasBackground bool
}

// NewPageHandler returns GET / handler rendering the dashboard page.
func NewPageHandler(collection string, pollInterval time.Duration, authEnabled bool, backgroundPath string, logger *zap.Logger) http.HandlerFunc {
	tmpl := template.Must(template.New("dashboard").Parse(dashboardPage))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		hasBackground := false
		if backgroundPath != "" {
			if _, err := os.Stat(backgroundPath); err == nil {
				hasBackground = true
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := tmpl.Execute(w, PageData{
			Collection:    collection,
			PollInterval:  pollInterval.String(),
			AuthEnabled:   authEnabled,
			HasBackground: hasBackground,
		})
		if err != nil {
			logger.Error("failed to render dashboard page", zap.Error(err))
		}
	}
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Live Sensor Dashboard</title>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
<style>
body { font-family: sans-serif; margin: 0; padding: 2rem; background: #f5f5f5; }
{{if .HasBackground}}body { background-image: url("/static/background.jpg"); background-size: cover; }{{end}}
.card { background: rgba(255,255,255,0.92); border-radius: 8px; padding: 1.5rem; max-width: 960px; margin: 0 auto; }
h1 { font-size: 1.3rem; margin-top: 0; }
#status { color: #666; margin: 0.5rem 0 1rem; }
#retry, #login button { padding: 0.4rem 1rem; cursor: pointer; }
.hidden { display: none; }
</style>
</head>
<body>
<div class="card">
  <h1>Live Streaming Graph from Database</h1>
  <p id="status">Connecting&hellip;</p>
  {{if .AuthEnabled}}
  <div id="login">
    <input id="passphrase" type="password" placeholder="Passphrase">
    <button onclick="login()">Unlock</button>
  </div>
  {{end}}
  <button id="retry" class="hidden" onclick="retry()">Check for Data</button>
  <canvas id="chart" class="hidden" height="120"></canvas>
  <p>Collection: <code>{{.Collection}}</code> &middot; refresh every {{.PollInterval}}</p>
</div>
<script>
const authEnabled = {{if .AuthEnabled}}true{{else}}false{{end}};
let chart = null;
let sock = null;

function setStatus(text) { document.getElementById("status").textContent = text; }
function show(id, on) { document.getElementById(id).classList.toggle("hidden", !on); }

function login() {
  const passphrase = document.getElementById("passphrase").value;
  fetch("/auth/login", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({passphrase: passphrase})
  }).then(resp => {
    if (!resp.ok) { setStatus("Invalid passphrase."); return null; }
    return resp.json();
  }).then(body => {
    if (!body) return;
    show("login", false);
    connect(body.token);
  });
}

function connect(token) {
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  let url = proto + "//" + location.host + "/ws";
  if (token) url += "?token=" + encodeURIComponent(token);
  sock = new WebSocket(url);
  sock.onopen = () => setStatus("Connected. Waiting for data…");
  sock.onclose = () => setStatus("Disconnected.");
  sock.onmessage = (event) => handle(JSON.parse(event.data));
}

function retry() {
  if (sock && sock.readyState === WebSocket.OPEN) {
    sock.send(JSON.stringify({type: "retry"}));
    setStatus("Checking for data…");
  }
}

function handle(frame) {
  switch (frame.type) {
  case "snapshot":
    show("retry", false);
    show("chart", true);
    setStatus("Streaming.");
    render(frame.rows || []);
    break;
  case "append":
    append(frame.rows || []);
    break;
  case "waiting":
    show("retry", true);
    setStatus("No data found in the collection yet. Waiting for data…");
    break;
  case "error":
    setStatus("Error: " + frame.message);
    break;
  }
}

function render(rows) {
  const ctx = document.getElementById("chart").getContext("2d");
  if (chart) chart.destroy();
  chart = new Chart(ctx, {
    type: "line",
    data: {
      labels: rows.map(r => r.timestamp),
      datasets: [{label: "voltage", data: rows.map(r => r.voltage), borderColor: "#2a6fdb", fill: false, tension: 0.2}]
    },
    options: {animation: false, scales: {x: {ticks: {maxTicksLimit: 10}}}}
  });
}

function append(rows) {
  if (!chart) return;
  for (const r of rows) {
    chart.data.labels.push(r.timestamp);
    chart.data.datasets[0].data.push(r.voltage);
  }
  chart.update();
}

if (!authEnabled) connect(null);
else setStatus("Enter the passphrase to view the dashboard.");
</script>
</body>
</html>
`
