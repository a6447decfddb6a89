package planner

// Keyword tables for the deterministic selection path. Matching normalizes
// both sides, so multi-word English entries still hit spaced task text.

var translatorKeywords = []string{
	"翻译", "翻成", "翻译成", "翻译一下", "译成", "变成", "改成", "英文", "英语",
	"日语", "韩语", "德语", "法语", "西班牙语", "英文版", "怎么说", "用英语怎么说",
	"怎么讲", "怎么读", "英文怎么写", "in english", "translate", "translation",
}

var antiScamKeywords = []string{
	"诈骗", "被骗", "骗钱", "反诈", "钓鱼", "冒充", "转账", "汇款", "验证码", "中奖",
	"刷单", "贷款", "冻结", "异常账户", "可疑链接", "二维码", "远程控制", "诈骗短信",
	"冒充客服", "刷流水", "刷流水任务", "刷流水兼职", "刷流水返利", "银行风控",
	"账户异常", "解封", "人脸认证", "安全验证", "fraud", "phishing", "fake support",
	"teamviewer", "anydesk",
}

var doudizhuKeywords = []string{
	"斗地主", "出牌", "牌型", "炸弹", "顺子", "飞机", "地主", "农民", "叫牌", "控牌",
	"叫地主", "抢地主", "提示出牌", "打牌", "牌局", "牌面", "牌权", "记牌",
}

var photoCompositionKeywords = []string{
	"构图", "拍照", "摄影", "相机预览", "相机构图", "相机取景", "取景", "画面", "主体",
	"三分法", "留白", "平衡", "取景框", "拍摄", "拍得更好", "主体居中", "构图建议",
	"构图指导", "三分构图", "对焦", "横平竖直", "composition",
}
